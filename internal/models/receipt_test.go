package models

import (
	"encoding/json"
	"testing"
)

func TestCoerceCategory(t *testing.T) {
	tests := []struct {
		input string
		want  SupplyCategory
	}{
		{"feed_nutrition", CategoryFeedNutrition},
		{"bedding", CategoryBedding},
		{"other", CategoryOther},
		{"electronics", CategoryOther},
		{"Feed_Nutrition", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		if got := CoerceCategory(tt.input); got != tt.want {
			t.Errorf("CoerceCategory(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestAppendNote(t *testing.T) {
	e := &ReceiptExtraction{}
	e.AppendNote("First note.")
	if e.Notes != "First note." {
		t.Errorf("expected first note verbatim, got %q", e.Notes)
	}
	e.AppendNote("Second note.")
	if e.Notes != "First note. Second note." {
		t.Errorf("expected space-joined notes, got %q", e.Notes)
	}
}

func TestFailedResultShape(t *testing.T) {
	result := FailedResult("upstream timeout", "raw model text")

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["success"] != false {
		t.Errorf("expected success false")
	}
	if decoded["error"] != "upstream timeout" {
		t.Errorf("expected error message, got %v", decoded["error"])
	}
	if decoded["ai_processed"] != false {
		t.Errorf("expected ai_processed false")
	}
	if decoded["confidence_score"] != 0.0 {
		t.Errorf("expected confidence_score 0, got %v", decoded["confidence_score"])
	}
	if decoded["manual_review_required"] != true {
		t.Errorf("expected manual_review_required true")
	}
	if decoded["raw_response"] != "raw model text" {
		t.Errorf("expected raw response preserved, got %v", decoded["raw_response"])
	}

	items, ok := decoded["line_items"].([]interface{})
	if !ok || len(items) != 0 {
		t.Errorf("expected empty line_items array, got %v", decoded["line_items"])
	}
}

func TestProcessResultFlattensExtraction(t *testing.T) {
	result := &ReceiptProcessResult{
		ReceiptExtraction: &ReceiptExtraction{
			VendorName:  "Feed Store",
			TotalAmount: 49.32,
			LineItems:   []LineItem{},
		},
		Success:             true,
		AIProcessed:         true,
		ProcessingTimestamp: "2026-03-14T12:00:00Z",
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	// Extraction fields sit at the top level, not nested
	if decoded["vendor_name"] != "Feed Store" {
		t.Errorf("expected vendor_name at top level, got %v", decoded["vendor_name"])
	}
	if decoded["total_amount"] != 49.32 {
		t.Errorf("expected total_amount at top level, got %v", decoded["total_amount"])
	}
	if decoded["success"] != true {
		t.Errorf("expected success true")
	}
	if _, nested := decoded["ReceiptExtraction"]; nested {
		t.Errorf("expected embedded extraction to flatten, found nested key")
	}
}
