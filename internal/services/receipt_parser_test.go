package services

import (
	"testing"
)

func TestExtractJSONObjectPlain(t *testing.T) {
	raw := `{"vendor_name": "Tractor Supply", "total_amount": 54.12}`

	parsed, ok := ExtractJSONObject(raw)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if parsed["vendor_name"] != "Tractor Supply" {
		t.Errorf("expected vendor_name 'Tractor Supply', got %v", parsed["vendor_name"])
	}
	if parsed["total_amount"] != 54.12 {
		t.Errorf("expected total_amount 54.12, got %v", parsed["total_amount"])
	}
}

func TestExtractJSONObjectWithSurroundingProse(t *testing.T) {
	raw := "Here is the extracted receipt data:\n```json\n" +
		`{"vendor_name": "Feed Store", "line_items": []}` +
		"\n```\nLet me know if you need anything else."

	parsed, ok := ExtractJSONObject(raw)
	if !ok {
		t.Fatalf("expected parse to succeed with surrounding prose")
	}
	if parsed["vendor_name"] != "Feed Store" {
		t.Errorf("expected vendor_name 'Feed Store', got %v", parsed["vendor_name"])
	}
}

func TestExtractJSONObjectNestedBraces(t *testing.T) {
	raw := `prefix {"outer": {"inner": 1}, "total_amount": 10} suffix`

	parsed, ok := ExtractJSONObject(raw)
	if !ok {
		t.Fatalf("expected parse to succeed with nested objects")
	}
	outer, ok := parsed["outer"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected outer to be an object, got %T", parsed["outer"])
	}
	if outer["inner"] != 1.0 {
		t.Errorf("expected inner 1, got %v", outer["inner"])
	}
}

func TestExtractJSONObjectNoJSON(t *testing.T) {
	for _, raw := range []string{
		"",
		"I could not read this receipt, the image is too blurry.",
		"{not valid json at all}",
	} {
		if parsed, ok := ExtractJSONObject(raw); ok {
			t.Errorf("expected failure for %q, got %v", raw, parsed)
		}
	}
}

func TestExtractJSONObjectWhitespaceWrapped(t *testing.T) {
	raw := "\n\n  {\"vendor_name\": \"Co-op\"}  \n"

	parsed, ok := ExtractJSONObject(raw)
	if !ok {
		t.Fatalf("expected parse to succeed for whitespace-wrapped JSON")
	}
	if parsed["vendor_name"] != "Co-op" {
		t.Errorf("expected vendor_name 'Co-op', got %v", parsed["vendor_name"])
	}
}
