package services

import (
	"strings"

	"github.com/stonegate/stablekeeper/internal/models"
)

// SuggestSupply proposes a draft catalog entry for an unmatched receipt
// line. Purely advisory: drafts are returned to the caller for review and
// never auto-created. Every input yields a suggestion, possibly with a nil
// brand.
func SuggestSupply(item models.LineItem) models.SupplyDraft {
	description := strings.ToLower(item.Description)

	draft := models.SupplyDraft{
		Name:               item.Description,
		Description:        "Added from receipt: " + item.Description,
		Category:           item.Category,
		Brand:              resolveBrand(description, item.Brand),
		UnitType:           resolveUnitType(description, item.Category),
		CurrentStock:       0,
		LastCostPerUnit:    item.UnitPrice,
		IsActive:           true,
		ExpirationTracking: item.Category == models.CategoryHealthMedical || item.Category == models.CategoryFeedNutrition,
	}

	return draft
}

// resolveBrand scans the lowercased description against the known brand
// list, first match wins, title-cased. The model's own brand field takes
// priority when present.
func resolveBrand(description string, extractedBrand string) *string {
	if b := strings.TrimSpace(extractedBrand); b != "" {
		return &b
	}
	for _, brand := range knownBrands {
		if strings.Contains(description, brand) {
			titled := titleCase(brand)
			return &titled
		}
	}
	return nil
}

// resolveUnitType applies category-specific keyword rules, falling back to
// the per-category default when nothing matches.
func resolveUnitType(description string, category models.SupplyCategory) string {
	switch category {
	case models.CategoryFeedNutrition:
		if strings.Contains(description, "bale") || strings.Contains(description, "hay") {
			return "bales"
		}
		if strings.Contains(description, "bag") || strings.Contains(description, "feed") || strings.Contains(description, "grain") {
			return "bags"
		}
	case models.CategoryBedding:
		if strings.Contains(description, "bale") || strings.Contains(description, "straw") {
			return "bales"
		}
	case models.CategoryHealthMedical:
		if strings.Contains(description, "tube") || strings.Contains(description, "paste") || strings.Contains(description, "wormer") {
			return "tubes"
		}
		if strings.Contains(description, "bottle") || strings.Contains(description, "spray") || strings.Contains(description, "liniment") {
			return "bottles"
		}
	case models.CategoryGrooming:
		if strings.Contains(description, "shampoo") || strings.Contains(description, "conditioner") || strings.Contains(description, "spray") {
			return "bottles"
		}
	}
	return defaultUnitType(category)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
