package services

import (
	"math"
	"testing"

	"github.com/stonegate/stablekeeper/internal/models"
)

func testCatalog() []models.Supply {
	purina := "Purina"
	farnam := "Farnam"
	return []models.Supply{
		{ID: 1, Name: "Strategy Horse Feed", Category: models.CategoryFeedNutrition, Brand: &purina},
		{ID: 2, Name: "Fly Spray", Description: "Water-based fly repellent", Category: models.CategoryFacilityMaintenance, Brand: &farnam},
		{ID: 3, Name: "Pine Shavings", Description: "Premium pine shavings", Category: models.CategoryBedding},
	}
}

func TestMatchLineItemsStrongMatch(t *testing.T) {
	matcher := NewSupplyMatcher()

	// A terse receipt line against a longer catalog label: one shared token
	// out of three (0.4/3), plus category (0.4) and brand (0.2), clears 0.7.
	items := []models.LineItem{
		{Description: "Purina Strategy 50lb", Category: models.CategoryFeedNutrition},
	}

	matched := matcher.MatchLineItems(items, testCatalog())
	if len(matched) != 1 {
		t.Fatalf("expected 1 item back, got %d", len(matched))
	}

	item := matched[0]
	if item.SupplyID == nil || *item.SupplyID != 1 {
		t.Fatalf("expected match against supply 1, got %v (confidence %v)", item.SupplyID, item.MatchConfidence)
	}
	if item.MatchedSupplyName != "Strategy Horse Feed" {
		t.Errorf("expected matched name recorded, got %q", item.MatchedSupplyName)
	}
	if !item.AIMatched {
		t.Errorf("expected ai_matched true")
	}
	if item.ManualReviewRequired {
		t.Errorf("expected no review flag on a confident match")
	}
	want := weightCategory + (1.0/3.0)*weightText + weightBrand
	if math.Abs(item.MatchConfidence-want) > 1e-9 {
		t.Errorf("expected confidence %v, got %v", want, item.MatchConfidence)
	}
}

func TestMatchLineItemsNoMatch(t *testing.T) {
	matcher := NewSupplyMatcher()
	items := []models.LineItem{
		{Description: "Duct Tape", Category: models.CategoryOther},
	}

	matched := matcher.MatchLineItems(items, testCatalog())
	item := matched[0]
	if item.SupplyID != nil {
		t.Errorf("expected no supply match, got %v", *item.SupplyID)
	}
	if item.AIMatched {
		t.Errorf("expected ai_matched false")
	}
	if !item.ManualReviewRequired {
		t.Errorf("expected unmatched item flagged for review")
	}
}

func TestMatchLineItemsEmptyCatalog(t *testing.T) {
	matcher := NewSupplyMatcher()
	items := []models.LineItem{
		{Description: "Strategy Horse Feed", Category: models.CategoryFeedNutrition},
	}

	matched := matcher.MatchLineItems(items, nil)
	if matched[0].SupplyID != nil {
		t.Errorf("expected no match against empty catalog")
	}
	if !matched[0].ManualReviewRequired {
		t.Errorf("expected review flag against empty catalog")
	}
}

func TestMatchBelowThresholdRejected(t *testing.T) {
	matcher := NewSupplyMatcher()

	// Category agreement plus a brand hit scores exactly 0.4 + 0.2 + a text
	// contribution; with zero text overlap the total is 0.6, below the bar.
	brand := "Durvet"
	catalog := []models.Supply{
		{ID: 7, Name: "Ivermectin", Description: "dewormer", Category: models.CategoryHealthMedical, Brand: &brand},
	}
	items := []models.LineItem{
		{Description: "durvet equine product", Category: models.CategoryHealthMedical},
	}

	matched := matcher.MatchLineItems(items, catalog)
	score := matcher.scoreMatch(items[0], &catalog[0])
	if score > matchThreshold {
		t.Fatalf("test premise broken: score %v is above the threshold", score)
	}
	if matched[0].SupplyID != nil {
		t.Errorf("expected score %v to be rejected at threshold %v", score, matchThreshold)
	}
}

func TestMatchJustAboveThresholdAccepted(t *testing.T) {
	matcher := NewSupplyMatcher()

	// Category agreement plus 3/4 token overlap: 0.4 + 0.75*0.4, just past
	// the acceptance bar with no brand signal at all.
	supply := models.Supply{ID: 9, Name: "strategy gx feed", Description: "", Category: models.CategoryFeedNutrition}
	item := models.LineItem{Description: "bulk strategy gx feed", Category: models.CategoryFeedNutrition}

	score := matcher.scoreMatch(item, &supply)
	if score <= matchThreshold {
		t.Fatalf("test premise broken: score %v is not above the threshold", score)
	}

	matched := matcher.MatchLineItems([]models.LineItem{item}, []models.Supply{supply})
	if matched[0].SupplyID == nil || *matched[0].SupplyID != 9 {
		t.Errorf("expected score %v to be accepted", score)
	}
}

func TestScoreMatchComponents(t *testing.T) {
	matcher := NewSupplyMatcher()
	brand := "Purina"
	supply := models.Supply{Name: "feed", Description: "", Category: models.CategoryFeedNutrition, Brand: &brand}

	// Brand and category only, no token overlap
	item := models.LineItem{Description: "purina", Category: models.CategoryFeedNutrition}
	score := matcher.scoreMatch(item, &supply)
	// tokens {purina} vs {feed}: zero similarity
	if math.Abs(score-0.6) > 1e-9 {
		t.Errorf("expected 0.6 from category+brand, got %v", score)
	}

	// Category disagreement drops its weight
	item.Category = models.CategoryOther
	score = matcher.scoreMatch(item, &supply)
	if math.Abs(score-0.2) > 1e-9 {
		t.Errorf("expected 0.2 from brand only, got %v", score)
	}
}

func TestTokenSimilarity(t *testing.T) {
	tests := []struct {
		item, supply string
		want         float64
	}{
		{"horse feed", "horse feed", 1.0},
		{"horse feed", "dog food", 0.0},
		{"a b c", "b c d", 2.0 / 3.0},
		// Only the item side sets the denominator
		{"purina strategy 50lb", "strategy horse feed", 1.0 / 3.0},
		{"strategy", "strategy horse feed", 1.0},
		{"", "", 0.0},
		{"feed", "", 0.0},
		{"", "feed", 0.0},
	}

	for _, tt := range tests {
		got := tokenSimilarity(tokenize(tt.item), tokenize(tt.supply))
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("similarity(%q, %q): expected %v, got %v", tt.item, tt.supply, got, tt.want)
		}
	}
}

func TestMatchLineItemsPreservesOrder(t *testing.T) {
	matcher := NewSupplyMatcher()
	items := []models.LineItem{
		{Description: "Pine Shavings Premium", Category: models.CategoryBedding},
		{Description: "Mystery Widget", Category: models.CategoryOther},
		{Description: "Purina Strategy Horse Feed", Category: models.CategoryFeedNutrition},
	}

	matched := matcher.MatchLineItems(items, testCatalog())
	if len(matched) != 3 {
		t.Fatalf("expected 3 items back, got %d", len(matched))
	}
	for i := range items {
		if matched[i].Description != items[i].Description {
			t.Errorf("position %d: expected %q, got %q", i, items[i].Description, matched[i].Description)
		}
	}
}

func TestMatchConfidenceLevel(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.95, "high"},
		{0.9, "high"},
		{0.8, "medium"},
		{0.7, "none"},
		{0.3, "none"},
	}

	for _, tt := range tests {
		if got := MatchConfidenceLevel(tt.confidence); got != tt.want {
			t.Errorf("level(%v): expected %q, got %q", tt.confidence, got, tt.want)
		}
	}
}
