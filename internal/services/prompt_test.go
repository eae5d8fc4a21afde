package services

import (
	"strings"
	"testing"

	"github.com/stonegate/stablekeeper/internal/models"
)

func TestBuildReceiptPromptBare(t *testing.T) {
	prompt := BuildReceiptPrompt("", nil)

	if !strings.Contains(prompt, "ONLY a JSON object") {
		t.Errorf("expected JSON-only instruction")
	}
	for _, category := range models.SupplyCategories {
		if !strings.Contains(prompt, string(category)) {
			t.Errorf("expected category %q in prompt", category)
		}
	}
	if strings.Contains(prompt, "The uploader believes") {
		t.Errorf("expected no vendor clause without a hint")
	}
	if strings.Contains(prompt, "The uploader expects") {
		t.Errorf("expected no total clause without a hint")
	}
}

func TestBuildReceiptPromptWithHints(t *testing.T) {
	total := 54.1
	prompt := BuildReceiptPrompt("Tractor Supply", &total)

	if !strings.Contains(prompt, `"Tractor Supply"`) {
		t.Errorf("expected vendor hint quoted in prompt")
	}
	if !strings.Contains(prompt, "54.10") {
		t.Errorf("expected total formatted to two decimals")
	}
	if !strings.Contains(prompt, "Verify this against the image") {
		t.Errorf("expected the vendor clause to ask for verification")
	}
	if !strings.Contains(prompt, "Verify this against the printed total") {
		t.Errorf("expected the total clause to ask for verification")
	}
}

func TestBuildReceiptPromptDeterministic(t *testing.T) {
	if BuildReceiptPrompt("", nil) != BuildReceiptPrompt("", nil) {
		t.Errorf("expected identical prompts for identical inputs")
	}
}
