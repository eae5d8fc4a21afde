package models

import (
	"time"
)

// TransactionStatus represents the review state of a purchase transaction
type TransactionStatus string

const (
	TransactionStatusRecorded    TransactionStatus = "recorded"
	TransactionStatusNeedsReview TransactionStatus = "needs_review"
	TransactionStatusReviewed    TransactionStatus = "reviewed"
)

// SupplyTransaction represents one persisted purchase (one receipt)
type SupplyTransaction struct {
	ID                   int               `json:"id"`
	UserID               int               `json:"user_id"`
	VendorName           string            `json:"vendor_name"`
	PurchaseDate         *time.Time        `json:"purchase_date,omitempty"`
	ReceiptNumber        *string           `json:"receipt_number,omitempty"`
	Subtotal             *float64          `json:"subtotal,omitempty"`
	TaxAmount            *float64          `json:"tax_amount,omitempty"`
	TotalAmount          float64           `json:"total_amount"`
	Status               TransactionStatus `json:"status"`
	AIProcessed          bool              `json:"ai_processed"`
	AIConfidence         *float64          `json:"ai_confidence,omitempty"`
	ManualReviewRequired bool              `json:"manual_review_required"`
	Notes                *string           `json:"notes,omitempty"`
	ImageBucket          *string           `json:"image_bucket,omitempty"`
	ImageKey             *string           `json:"image_key,omitempty"`
	ImageURL             *string           `json:"image_url,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// TransactionWithItems includes the persisted line items
type TransactionWithItems struct {
	SupplyTransaction
	Items []TransactionItem `json:"items"`
}

// TransactionItem is one persisted receipt line
type TransactionItem struct {
	ID                int            `json:"id"`
	TransactionID     int            `json:"transaction_id"`
	Description       string         `json:"description"`
	Quantity          float64        `json:"quantity"`
	UnitPrice         *float64       `json:"unit_price,omitempty"`
	TotalPrice        float64        `json:"total_price"`
	Category          SupplyCategory `json:"category"`
	SupplyID          *int           `json:"supply_id,omitempty"`
	MatchedSupplyName *string        `json:"matched_supply_name,omitempty"`
	MatchConfidence   *float64       `json:"match_confidence,omitempty"`
	AIMatched         bool           `json:"ai_matched"`
	NeedsReview       bool           `json:"needs_review"`
	CreatedAt         time.Time      `json:"created_at"`
}

// CreateTransactionRequest is used when persisting a processed receipt
type CreateTransactionRequest struct {
	UserID               int
	VendorName           string
	PurchaseDate         *time.Time
	ReceiptNumber        *string
	Subtotal             *float64
	TaxAmount            *float64
	TotalAmount          float64
	AIProcessed          bool
	AIConfidence         *float64
	ManualReviewRequired bool
	Notes                *string
	ImageBucket          *string
	ImageKey             *string
	Items                []LineItem
}

// TransactionListParams contains parameters for listing transactions
type TransactionListParams struct {
	UserID int
	Limit  int
	Offset int
	Status *string
}
