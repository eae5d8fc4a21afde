package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/stonegate/stablekeeper/internal/models"
)

const (
	// UnknownVendor is the sentinel used when the model reports no vendor.
	UnknownVendor = "Unknown Vendor"

	// amountTolerance is the allowed drift, in currency units, between
	// subtotal + tax and the printed total before the receipt is flagged.
	amountTolerance = 0.02
)

// purchaseDateFormats are tried in order when normalizing the model's
// purchase_date value.
var purchaseDateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
}

// ValidateExtraction converts the untrusted parsed response into a fully
// populated ReceiptExtraction. It never fails: every field degrades to a
// conservative default and inconsistencies escalate manual_review_required
// instead of erroring. The review flag is monotonic within one pass.
func ValidateExtraction(raw map[string]interface{}) *models.ReceiptExtraction {
	extraction := &models.ReceiptExtraction{
		VendorName:           UnknownVendor,
		PurchaseDate:         parsePurchaseDate(rawString(raw, "purchase_date")),
		ReceiptNumber:        rawString(raw, "receipt_number"),
		Subtotal:             parseMoney(raw["subtotal"]),
		TaxAmount:            parseMoney(raw["tax_amount"]),
		ConfidenceScore:      clamp01(rawFloat(raw, "confidence_score")),
		ManualReviewRequired: rawBool(raw, "manual_review_required"),
		LineItems:            []models.LineItem{},
	}

	if vendor := strings.TrimSpace(rawString(raw, "vendor_name")); vendor != "" {
		extraction.VendorName = vendor
	}

	if total := parseMoney(raw["total_amount"]); total != nil {
		extraction.TotalAmount = *total
	}

	if rawItems, ok := raw["line_items"].([]interface{}); ok {
		for _, ri := range rawItems {
			entry, ok := ri.(map[string]interface{})
			if !ok {
				continue
			}
			if item, ok := validateLineItem(entry); ok {
				extraction.LineItems = append(extraction.LineItems, item)
			}
		}
	}

	// Back-fill subtotal from the retained lines when the model omitted it
	if extraction.Subtotal == nil && len(extraction.LineItems) > 0 {
		var sum float64
		for _, item := range extraction.LineItems {
			sum += item.TotalPrice
		}
		extraction.Subtotal = &sum
	}

	// Review escalation rules: independent and cumulative, each appends a
	// note and sets the flag on failure only.
	if extraction.TotalAmount <= 0 {
		extraction.AppendNote("Missing or invalid total amount.")
		extraction.ManualReviewRequired = true
	}
	if len(extraction.LineItems) == 0 {
		extraction.AppendNote("No line items detected.")
		extraction.ManualReviewRequired = true
	}
	if extraction.Subtotal != nil && extraction.TaxAmount != nil {
		diff := math.Abs(*extraction.Subtotal + *extraction.TaxAmount - extraction.TotalAmount)
		if diff > amountTolerance {
			extraction.AppendNote("Amounts don't add up correctly.")
			extraction.ManualReviewRequired = true
		}
	}

	return extraction
}

// validateLineItem builds one LineItem from an untrusted entry. Items with
// an empty description are dropped, everything else degrades to defaults.
func validateLineItem(entry map[string]interface{}) (models.LineItem, bool) {
	description := strings.TrimSpace(rawString(entry, "description"))
	if description == "" {
		return models.LineItem{}, false
	}

	item := models.LineItem{
		Description: description,
		Quantity:    rawFloat(entry, "quantity"),
		UnitPrice:   parseMoney(entry["unit_price"]),
		ProductCode: rawString(entry, "product_code"),
		Brand:       rawString(entry, "brand"),
		UnitType:    rawString(entry, "unit_type"),
		Category:    models.CoerceCategory(rawString(entry, "category")),
		Confidence:  clamp01(rawFloat(entry, "confidence")),
	}

	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if total := parseMoney(entry["total_price"]); total != nil {
		item.TotalPrice = *total
	}

	return item, true
}

// parseMoney converts a JSON value into a non-negative amount. Strings are
// cleaned of currency formatting before conversion. Returns nil instead of
// failing on anything unparsable.
func parseMoney(v interface{}) *float64 {
	switch value := v.(type) {
	case float64:
		if value < 0 {
			return nil
		}
		return &value
	case string:
		cleaned := strings.TrimSpace(value)
		cleaned = strings.ReplaceAll(cleaned, "$", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || parsed < 0 {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

// parsePurchaseDate normalizes a date string to YYYY-MM-DD by trying each
// candidate format in order. Returns nil on total failure, never an error.
func parsePurchaseDate(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, format := range purchaseDateFormats {
		if t, err := time.Parse(format, s); err == nil {
			normalized := t.Format("2006-01-02")
			return &normalized
		}
	}
	return nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func rawString(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func rawFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

func rawBool(m map[string]interface{}, key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}
