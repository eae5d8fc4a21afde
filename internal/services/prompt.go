package services

import (
	"fmt"
	"strings"

	"github.com/stonegate/stablekeeper/internal/models"
)

// BuildReceiptPrompt constructs the instruction text for the vision model.
// Pure function: hints are optional and only append validation clauses, the
// model is asked to verify them against the image rather than trust them.
func BuildReceiptPrompt(vendorHint string, expectedTotal *float64) string {
	var categories []string
	for _, c := range models.SupplyCategories {
		categories = append(categories, string(c))
	}
	categoryEnum := strings.Join(categories, " | ")

	var b strings.Builder
	b.WriteString(`You are a receipt data extraction engine for a horse barn's supply ledger.
Analyze the receipt image and return ONLY a JSON object, no markdown, no explanations.

Required JSON schema:
{
  "vendor_name": "string",
  "purchase_date": "YYYY-MM-DD",
  "receipt_number": "string or omit",
  "subtotal": number,
  "tax_amount": number,
  "total_amount": number,
  "line_items": [
    {
      "description": "string, the item exactly as printed",
      "quantity": number,
      "unit_price": number,
      "total_price": number,
      "product_code": "string or omit",
      "brand": "string or omit",
      "unit_type": "string or omit",
      "category": "` + categoryEnum + `",
      "confidence": number between 0 and 1
    }
  ],
  "confidence_score": number between 0 and 1,
  "manual_review_required": boolean
}

Rules:
- "category" MUST be exactly one of the enumerated values; use "other" when uncertain.
- Report a per-item "confidence" and an overall "confidence_score".
- Set "manual_review_required" to true if any part of the receipt is illegible or ambiguous.
- Use plain numbers for money, no currency symbols.
`)

	if vendorHint != "" {
		fmt.Fprintf(&b, "\nThe uploader believes this receipt is from %q. Verify this against the image; report the vendor name actually printed if it differs.\n", vendorHint)
	}
	if expectedTotal != nil {
		fmt.Fprintf(&b, "\nThe uploader expects a total of %.2f. Verify this against the printed total; report the printed total if it differs and lower your confidence accordingly.\n", *expectedTotal)
	}

	return b.String()
}
