package services

import (
	"strings"

	"github.com/stonegate/stablekeeper/internal/models"
)

// categoryKeywords maps each supply category to terms commonly seen on
// receipt lines for that category. Reference data for the matcher and
// suggester; hand-curated and expected to drift from the live catalog.
var categoryKeywords = map[models.SupplyCategory][]string{
	models.CategoryFeedNutrition: {
		"feed", "grain", "hay", "bale", "pellet", "oats", "sweet feed",
		"supplement", "alfalfa", "timothy", "beet pulp", "rice bran",
		"electrolyte", "salt block", "mineral",
	},
	models.CategoryHealthMedical: {
		"wormer", "dewormer", "vaccine", "bute", "banamine", "ointment",
		"bandage", "wrap", "liniment", "antiseptic", "thrush", "hoof oil",
		"fly spray", "syringe", "medication",
	},
	models.CategoryGrooming: {
		"brush", "comb", "shampoo", "conditioner", "detangler", "curry",
		"hoof pick", "clipper", "blade", "sponge", "sweat scraper",
		"show sheen", "coat polish",
	},
	models.CategoryTackEquipment: {
		"halter", "lead rope", "bridle", "bit", "saddle", "pad", "girth",
		"cinch", "stirrup", "rein", "lunge line", "blanket", "sheet",
		"boots", "bell boot",
	},
	models.CategoryBedding: {
		"shavings", "sawdust", "straw", "pellets bedding", "stall mat",
		"wood pellet",
	},
	models.CategoryFacilityMaintenance: {
		"fence", "gate", "latch", "bucket", "feeder", "water trough",
		"pitchfork", "wheelbarrow", "rake", "shovel", "nails", "screws",
		"lumber", "paint",
	},
}

// knownBrands is a short list of barn-supply brand names scanned against
// item descriptions when proposing a new supply. First match wins.
var knownBrands = []string{
	"purina", "nutrena", "triple crown", "tribute", "standlee", "manna pro",
	"farnam", "absorbine", "zoetis", "merck", "durvet", "vetericyn",
	"weaver", "professional's choice", "tough-1", "horseware", "wahl",
	"oster", "shapley's",
}

// InferCategory guesses a supply category from an item description by
// scanning the keyword lexicon. Longest keyword match wins so that
// "pellets bedding" beats "pellet". Returns CategoryOther when nothing
// matches.
func InferCategory(description string) models.SupplyCategory {
	description = strings.ToLower(description)

	best := models.CategoryOther
	bestLen := 0
	for category, keywords := range categoryKeywords {
		for _, keyword := range keywords {
			if len(keyword) > bestLen && strings.Contains(description, keyword) {
				best = category
				bestLen = len(keyword)
			}
		}
	}
	return best
}

// defaultUnitType returns the category-appropriate fallback unit.
func defaultUnitType(category models.SupplyCategory) string {
	switch category {
	case models.CategoryFeedNutrition:
		return "pounds"
	case models.CategoryBedding:
		return "bags"
	default:
		return "each"
	}
}
