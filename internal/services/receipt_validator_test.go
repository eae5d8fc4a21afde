package services

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stonegate/stablekeeper/internal/models"
)

func validRaw() map[string]interface{} {
	return map[string]interface{}{
		"vendor_name":   "Tractor Supply Co",
		"purchase_date": "2026-03-14",
		"subtotal":      45.67,
		"tax_amount":    3.65,
		"total_amount":  49.32,
		"line_items": []interface{}{
			map[string]interface{}{
				"description": "Purina Strategy Horse Feed 50lb",
				"quantity":    2.0,
				"unit_price":  22.835,
				"total_price": 45.67,
				"category":    "feed_nutrition",
				"confidence":  0.95,
			},
		},
		"confidence_score":       0.9,
		"manual_review_required": false,
	}
}

func TestValidateExtractionHappyPath(t *testing.T) {
	extraction := ValidateExtraction(validRaw())

	if extraction.VendorName != "Tractor Supply Co" {
		t.Errorf("expected vendor name preserved, got %q", extraction.VendorName)
	}
	if extraction.PurchaseDate == nil || *extraction.PurchaseDate != "2026-03-14" {
		t.Errorf("expected purchase date 2026-03-14, got %v", extraction.PurchaseDate)
	}
	if extraction.TotalAmount != 49.32 {
		t.Errorf("expected total 49.32, got %v", extraction.TotalAmount)
	}
	if len(extraction.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(extraction.LineItems))
	}
	if extraction.ManualReviewRequired {
		t.Errorf("expected no review for consistent receipt, notes: %q", extraction.Notes)
	}
	if extraction.Notes != "" {
		t.Errorf("expected no notes, got %q", extraction.Notes)
	}
}

func TestValidateExtractionMissingVendor(t *testing.T) {
	raw := validRaw()
	delete(raw, "vendor_name")

	extraction := ValidateExtraction(raw)
	if extraction.VendorName != UnknownVendor {
		t.Errorf("expected %q, got %q", UnknownVendor, extraction.VendorName)
	}

	raw["vendor_name"] = "   "
	extraction = ValidateExtraction(raw)
	if extraction.VendorName != UnknownVendor {
		t.Errorf("expected blank vendor to default, got %q", extraction.VendorName)
	}
}

func TestValidateExtractionMissingTotal(t *testing.T) {
	raw := validRaw()
	delete(raw, "total_amount")
	delete(raw, "subtotal")
	delete(raw, "tax_amount")

	extraction := ValidateExtraction(raw)
	if !extraction.ManualReviewRequired {
		t.Errorf("expected review for missing total")
	}
	if !strings.Contains(extraction.Notes, "Missing or invalid total amount.") {
		t.Errorf("expected missing-total note, got %q", extraction.Notes)
	}
}

func TestValidateExtractionNoLineItems(t *testing.T) {
	raw := validRaw()
	raw["line_items"] = []interface{}{}
	delete(raw, "subtotal")
	delete(raw, "tax_amount")

	extraction := ValidateExtraction(raw)
	if extraction.LineItems == nil {
		t.Fatalf("expected empty slice, not nil")
	}
	if len(extraction.LineItems) != 0 {
		t.Fatalf("expected no line items, got %d", len(extraction.LineItems))
	}
	if !extraction.ManualReviewRequired {
		t.Errorf("expected review for empty receipt")
	}
	if !strings.Contains(extraction.Notes, "No line items detected.") {
		t.Errorf("expected no-items note, got %q", extraction.Notes)
	}
}

func TestValidateExtractionAmountMismatch(t *testing.T) {
	raw := validRaw()
	raw["total_amount"] = 55.00

	extraction := ValidateExtraction(raw)
	if !extraction.ManualReviewRequired {
		t.Errorf("expected review for inconsistent amounts")
	}
	if count := strings.Count(extraction.Notes, "Amounts don't add up correctly."); count != 1 {
		t.Errorf("expected mismatch note exactly once, got %d in %q", count, extraction.Notes)
	}
}

func TestValidateExtractionAmountWithinTolerance(t *testing.T) {
	raw := validRaw()
	// 45.67 + 3.65 = 49.32; one cent of drift is tolerated
	raw["total_amount"] = 49.33

	extraction := ValidateExtraction(raw)
	if extraction.ManualReviewRequired {
		t.Errorf("expected 0.01 drift to pass, notes: %q", extraction.Notes)
	}
}

func TestValidateExtractionCumulativeRules(t *testing.T) {
	raw := map[string]interface{}{
		"vendor_name":  "Feed Store",
		"subtotal":     10.0,
		"tax_amount":   1.0,
		"total_amount": 0.0,
		"line_items":   []interface{}{},
	}

	extraction := ValidateExtraction(raw)
	if !strings.Contains(extraction.Notes, "Missing or invalid total amount.") {
		t.Errorf("expected missing-total note, got %q", extraction.Notes)
	}
	if !strings.Contains(extraction.Notes, "No line items detected.") {
		t.Errorf("expected no-items note, got %q", extraction.Notes)
	}
	if !strings.Contains(extraction.Notes, "Amounts don't add up correctly.") {
		t.Errorf("expected mismatch note, got %q", extraction.Notes)
	}
}

func TestValidateExtractionQuantityFloor(t *testing.T) {
	for _, quantity := range []float64{0, -3, 0.5} {
		raw := validRaw()
		raw["line_items"] = []interface{}{
			map[string]interface{}{
				"description": "Salt Block",
				"quantity":    quantity,
				"total_price": 4.99,
				"category":    "feed_nutrition",
			},
		}

		extraction := ValidateExtraction(raw)
		if len(extraction.LineItems) != 1 {
			t.Fatalf("expected 1 line item, got %d", len(extraction.LineItems))
		}
		if extraction.LineItems[0].Quantity != 1 {
			t.Errorf("quantity %v: expected floor of 1, got %v", quantity, extraction.LineItems[0].Quantity)
		}
	}
}

func TestValidateExtractionDropsBlankDescriptions(t *testing.T) {
	raw := validRaw()
	raw["line_items"] = []interface{}{
		map[string]interface{}{"description": "   ", "total_price": 5.0},
		map[string]interface{}{"description": "Hoof Pick", "total_price": 3.99, "category": "grooming"},
		"not an object",
	}
	raw["subtotal"] = 3.99
	raw["tax_amount"] = 0.0
	raw["total_amount"] = 3.99

	extraction := ValidateExtraction(raw)
	if len(extraction.LineItems) != 1 {
		t.Fatalf("expected blank and malformed entries dropped, got %d items", len(extraction.LineItems))
	}
	if extraction.LineItems[0].Description != "Hoof Pick" {
		t.Errorf("expected 'Hoof Pick', got %q", extraction.LineItems[0].Description)
	}
}

func TestValidateExtractionCategoryCoercion(t *testing.T) {
	raw := validRaw()
	raw["line_items"] = []interface{}{
		map[string]interface{}{"description": "Mystery Item", "total_price": 1.0, "category": "electronics"},
		map[string]interface{}{"description": "Shavings", "total_price": 6.49, "category": "bedding"},
	}

	extraction := ValidateExtraction(raw)
	if extraction.LineItems[0].Category != models.CategoryOther {
		t.Errorf("expected invalid category coerced to other, got %q", extraction.LineItems[0].Category)
	}
	if extraction.LineItems[1].Category != models.CategoryBedding {
		t.Errorf("expected bedding preserved, got %q", extraction.LineItems[1].Category)
	}
}

func TestValidateExtractionSubtotalBackfill(t *testing.T) {
	raw := validRaw()
	delete(raw, "subtotal")
	delete(raw, "tax_amount")

	extraction := ValidateExtraction(raw)
	if extraction.Subtotal == nil {
		t.Fatalf("expected subtotal back-filled from line items")
	}
	if *extraction.Subtotal != 45.67 {
		t.Errorf("expected subtotal 45.67, got %v", *extraction.Subtotal)
	}
}

func TestValidateExtractionMoneyStrings(t *testing.T) {
	raw := validRaw()
	raw["subtotal"] = "$1,045.67"
	raw["tax_amount"] = "83.65"
	raw["total_amount"] = "$1,129.32"

	extraction := ValidateExtraction(raw)
	if extraction.Subtotal == nil || *extraction.Subtotal != 1045.67 {
		t.Errorf("expected subtotal 1045.67, got %v", extraction.Subtotal)
	}
	if extraction.TotalAmount != 1129.32 {
		t.Errorf("expected total 1129.32, got %v", extraction.TotalAmount)
	}
}

func TestValidateExtractionNegativeMoneyRejected(t *testing.T) {
	raw := validRaw()
	raw["subtotal"] = -5.0
	raw["tax_amount"] = "-1.00"

	extraction := ValidateExtraction(raw)
	// negative values drop to nil; subtotal then back-fills from line items
	if extraction.Subtotal == nil || *extraction.Subtotal != 45.67 {
		t.Errorf("expected negative subtotal replaced by line sum, got %v", extraction.Subtotal)
	}
	if extraction.TaxAmount != nil {
		t.Errorf("expected negative tax dropped, got %v", *extraction.TaxAmount)
	}
}

func TestValidateExtractionDateFormats(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2026-03-14", "2026-03-14"},
		{"03/14/2026", "2026-03-14"},
		{"03-14-2026", "2026-03-14"},
		{"2026/03/14", "2026-03-14"},
	}

	for _, tt := range tests {
		raw := validRaw()
		raw["purchase_date"] = tt.input
		extraction := ValidateExtraction(raw)
		if extraction.PurchaseDate == nil || *extraction.PurchaseDate != tt.want {
			t.Errorf("date %q: expected %q, got %v", tt.input, tt.want, extraction.PurchaseDate)
		}
	}

	raw := validRaw()
	raw["purchase_date"] = "March 14th, 2026"
	extraction := ValidateExtraction(raw)
	if extraction.PurchaseDate != nil {
		t.Errorf("expected unparsable date to yield nil, got %q", *extraction.PurchaseDate)
	}
}

func TestValidateExtractionConfidenceClamped(t *testing.T) {
	raw := validRaw()
	raw["confidence_score"] = 1.7

	extraction := ValidateExtraction(raw)
	if extraction.ConfidenceScore != 1 {
		t.Errorf("expected confidence clamped to 1, got %v", extraction.ConfidenceScore)
	}

	raw["confidence_score"] = -0.3
	extraction = ValidateExtraction(raw)
	if extraction.ConfidenceScore != 0 {
		t.Errorf("expected confidence clamped to 0, got %v", extraction.ConfidenceScore)
	}
}

func TestValidateExtractionModelReviewFlagPreserved(t *testing.T) {
	raw := validRaw()
	raw["manual_review_required"] = true

	extraction := ValidateExtraction(raw)
	if !extraction.ManualReviewRequired {
		t.Errorf("expected the model's review flag to be preserved")
	}
}

func TestValidateExtractionIdempotent(t *testing.T) {
	raw := validRaw()
	raw["total_amount"] = 60.0 // forces the mismatch rule

	first := ValidateExtraction(raw)

	// Feed the validated output back through the validator and check that
	// nothing mutates further: notes stay single, the flag stays set.
	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var roundTripped map[string]interface{}
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	second := ValidateExtraction(roundTripped)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("revalidation mutated the extraction:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if count := strings.Count(second.Notes, "Amounts don't add up correctly."); count != 1 {
		t.Errorf("expected mismatch note exactly once on repeat, got %d", count)
	}
}
