package models

import (
	"time"
)

// SupplyCategory is the fixed enumeration of barn supply categories.
type SupplyCategory string

const (
	CategoryFeedNutrition       SupplyCategory = "feed_nutrition"
	CategoryHealthMedical       SupplyCategory = "health_medical"
	CategoryGrooming            SupplyCategory = "grooming"
	CategoryTackEquipment       SupplyCategory = "tack_equipment"
	CategoryBedding             SupplyCategory = "bedding"
	CategoryFacilityMaintenance SupplyCategory = "facility_maintenance"
	CategoryOther               SupplyCategory = "other"
)

// SupplyCategories lists every valid category, in schema order.
var SupplyCategories = []SupplyCategory{
	CategoryFeedNutrition,
	CategoryHealthMedical,
	CategoryGrooming,
	CategoryTackEquipment,
	CategoryBedding,
	CategoryFacilityMaintenance,
	CategoryOther,
}

// CoerceCategory maps an arbitrary string onto the category enumeration.
// Anything outside the enumeration becomes CategoryOther; this is a total
// function and never fails.
func CoerceCategory(s string) SupplyCategory {
	c := SupplyCategory(s)
	for _, valid := range SupplyCategories {
		if c == valid {
			return c
		}
	}
	return CategoryOther
}

// Supply represents a catalog item in barn inventory
type Supply struct {
	ID                 int            `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Category           SupplyCategory `json:"category"`
	Brand              *string        `json:"brand,omitempty"`
	UnitType           string         `json:"unit_type"`
	CurrentStock       float64        `json:"current_stock"`
	MinimumStock       float64        `json:"minimum_stock"`
	LastCostPerUnit    *float64       `json:"last_cost_per_unit,omitempty"`
	IsActive           bool           `json:"is_active"`
	ExpirationTracking bool           `json:"expiration_tracking"`
	CreatedBy          *int           `json:"created_by,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// SupplyDraft is an advisory proposal for a new catalog entry, built from
// an unmatched receipt line. It is never auto-created.
type SupplyDraft struct {
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Category           SupplyCategory `json:"category"`
	Brand              *string        `json:"brand,omitempty"`
	UnitType           string         `json:"unit_type"`
	CurrentStock       float64        `json:"current_stock"`
	LastCostPerUnit    *float64       `json:"last_cost_per_unit,omitempty"`
	IsActive           bool           `json:"is_active"`
	ExpirationTracking bool           `json:"expiration_tracking"`
}

// CreateSupplyRequest is the request body for creating a supply
type CreateSupplyRequest struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Brand              *string  `json:"brand,omitempty"`
	UnitType           string   `json:"unit_type"`
	CurrentStock       float64  `json:"current_stock"`
	MinimumStock       float64  `json:"minimum_stock"`
	LastCostPerUnit    *float64 `json:"last_cost_per_unit,omitempty"`
	ExpirationTracking bool     `json:"expiration_tracking"`
}

// UpdateSupplyRequest is the request body for updating a supply
type UpdateSupplyRequest struct {
	Name               *string  `json:"name,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Category           *string  `json:"category,omitempty"`
	Brand              *string  `json:"brand,omitempty"`
	UnitType           *string  `json:"unit_type,omitempty"`
	MinimumStock       *float64 `json:"minimum_stock,omitempty"`
	LastCostPerUnit    *float64 `json:"last_cost_per_unit,omitempty"`
	IsActive           *bool    `json:"is_active,omitempty"`
	ExpirationTracking *bool    `json:"expiration_tracking,omitempty"`
}

// AdjustStockRequest is the request body for a manual stock adjustment
type AdjustStockRequest struct {
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason,omitempty"`
}

// SupplyListParams contains parameters for listing supplies
type SupplyListParams struct {
	Limit    int
	Offset   int
	Category *string
	Active   *bool
	Search   *string
}
