package services

import (
	"strings"

	"github.com/stonegate/stablekeeper/internal/models"
)

// Matching weights and acceptance threshold. The bar favors precision over
// recall: a wrong auto-selected supply silently corrupts stock accounting,
// an unmatched item just goes to review.
const (
	matchThreshold = 0.7
	weightCategory = 0.4
	weightText     = 0.4
	weightBrand    = 0.2
)

// SupplyMatcher reconciles extracted receipt lines against the supply
// catalog with weighted similarity heuristics.
type SupplyMatcher struct{}

// NewSupplyMatcher creates a new supply matcher
func NewSupplyMatcher() *SupplyMatcher {
	return &SupplyMatcher{}
}

// MatchLineItems scores every line item against the full catalog snapshot
// and returns the enriched items in the same order. Pure: match decisions
// are returned, never written.
func (m *SupplyMatcher) MatchLineItems(items []models.LineItem, catalog []models.Supply) []models.LineItem {
	results := make([]models.LineItem, 0, len(items))

	for _, item := range items {
		var best *models.Supply
		var bestScore float64

		for i := range catalog {
			score := m.scoreMatch(item, &catalog[i])
			if score > bestScore {
				best = &catalog[i]
				bestScore = score
			}
		}

		// Strict comparison: a score of exactly the threshold is rejected
		if best != nil && bestScore > matchThreshold {
			supplyID := best.ID
			item.SupplyID = &supplyID
			item.MatchedSupplyName = best.Name
			item.MatchConfidence = bestScore
			item.AIMatched = true
		} else {
			item.SupplyID = nil
			item.AIMatched = false
			item.ManualReviewRequired = true
		}

		results = append(results, item)
	}

	return results
}

// scoreMatch computes the weighted sum of three independent signals in
// [0,1]. No signal's absence zeroes out another.
func (m *SupplyMatcher) scoreMatch(item models.LineItem, supply *models.Supply) float64 {
	var score float64
	description := strings.ToLower(item.Description)

	if item.Category == supply.Category {
		score += weightCategory
	}

	similarity := tokenSimilarity(
		tokenize(description),
		tokenize(strings.ToLower(supply.Name+" "+supply.Description)),
	)
	score += similarity * weightText

	if supply.Brand != nil {
		brand := strings.ToLower(strings.TrimSpace(*supply.Brand))
		if brand != "" && strings.Contains(description, brand) {
			score += weightBrand
		}
	}

	return score
}

// tokenize splits text into a set of whitespace-delimited words.
func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		tokens[word] = struct{}{}
	}
	return tokens
}

// tokenSimilarity is |intersection| / |item tokens|. The denominator is the
// item side only: receipt lines are terse, and extra words in the catalog
// name or description must not dilute an otherwise solid overlap.
func tokenSimilarity(item, supply map[string]struct{}) float64 {
	if len(item) == 0 {
		return 0
	}

	intersection := 0
	for token := range item {
		if _, ok := supply[token]; ok {
			intersection++
		}
	}

	return float64(intersection) / float64(len(item))
}

// MatchConfidenceLevel returns a human-readable confidence level
func MatchConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "high"
	case confidence > 0.7:
		return "medium"
	default:
		return "none"
	}
}
