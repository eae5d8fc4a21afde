package models

// LineItem is one purchased product extracted from a receipt, before or
// after reconciliation against the supply catalog.
type LineItem struct {
	Description string         `json:"description"`
	Quantity    float64        `json:"quantity"`
	UnitPrice   *float64       `json:"unit_price"`
	TotalPrice  float64        `json:"total_price"`
	ProductCode string         `json:"product_code,omitempty"`
	Brand       string         `json:"brand,omitempty"`
	UnitType    string         `json:"unit_type,omitempty"`
	Category    SupplyCategory `json:"category"`
	Confidence  float64        `json:"confidence"`

	// Match results, populated by the supply matcher
	SupplyID             *int    `json:"supply_id"`
	MatchedSupplyName    string  `json:"matched_supply_name,omitempty"`
	MatchConfidence      float64 `json:"match_confidence,omitempty"`
	AIMatched            bool    `json:"ai_matched"`
	ManualReviewRequired bool    `json:"manual_review_required"`
}

// ReceiptExtraction is the validated result of one receipt-processing call.
// It is ephemeral: built fresh per call and handed off to the transaction
// repository, never persisted as-is.
type ReceiptExtraction struct {
	VendorName           string     `json:"vendor_name"`
	PurchaseDate         *string    `json:"purchase_date"`
	ReceiptNumber        string     `json:"receipt_number,omitempty"`
	Subtotal             *float64   `json:"subtotal"`
	TaxAmount            *float64   `json:"tax_amount"`
	TotalAmount          float64    `json:"total_amount"`
	LineItems            []LineItem `json:"line_items"`
	ConfidenceScore      float64    `json:"confidence_score"`
	Notes                string     `json:"notes,omitempty"`
	ManualReviewRequired bool       `json:"manual_review_required"`
}

// AppendNote adds a validation warning to the notes accumulator.
func (e *ReceiptExtraction) AppendNote(note string) {
	if e.Notes == "" {
		e.Notes = note
		return
	}
	e.Notes += " " + note
}

// ReceiptProcessResult is the uniform output of the receipt processor.
// On success the extraction fields are flattened into the object alongside
// ai_processed and processing_timestamp; on failure the embedded extraction
// carries the conservative defaults (confidence 0, review required).
type ReceiptProcessResult struct {
	*ReceiptExtraction
	Success             bool   `json:"success"`
	Error               string `json:"error,omitempty"`
	AIProcessed         bool   `json:"ai_processed"`
	ProcessingTimestamp string `json:"processing_timestamp,omitempty"`
	RawResponse         string `json:"raw_response,omitempty"`
}

// FailedResult builds the structured failure shape shared by upstream and
// parse failures. The raw model text, when available, is preserved for
// human audit.
func FailedResult(errMsg, rawResponse string) *ReceiptProcessResult {
	return &ReceiptProcessResult{
		ReceiptExtraction: &ReceiptExtraction{
			LineItems:            []LineItem{},
			ConfidenceScore:      0.0,
			ManualReviewRequired: true,
		},
		Success:     false,
		Error:       errMsg,
		AIProcessed: false,
		RawResponse: rawResponse,
	}
}
