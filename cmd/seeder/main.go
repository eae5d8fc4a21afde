package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/stonegate/stablekeeper/internal/config"
	"github.com/stonegate/stablekeeper/internal/database"
	"github.com/stonegate/stablekeeper/internal/models"
)

// SupplySeed is one catalog row to insert
type SupplySeed struct {
	Name        string
	Description string
	Category    models.SupplyCategory
	Brand       *string
	UnitType    string
	CostPerUnit *float64
}

// starterCatalog is the built-in catalog used when no CSV file is given.
// Common barn staples across every category so matching has something to
// work with on a fresh install.
var starterCatalog = []SupplySeed{
	{Name: "Strategy Horse Feed", Description: "Pelleted performance feed, 50 lb bag", Category: models.CategoryFeedNutrition, Brand: strPtr("Purina"), UnitType: "bags", CostPerUnit: floatPtr(24.99)},
	{Name: "SafeChoice Original", Description: "Controlled starch pelleted feed, 50 lb bag", Category: models.CategoryFeedNutrition, Brand: strPtr("Nutrena"), UnitType: "bags", CostPerUnit: floatPtr(22.49)},
	{Name: "Timothy Hay Bale", Description: "Premium timothy hay, small square bale", Category: models.CategoryFeedNutrition, UnitType: "bales", CostPerUnit: floatPtr(9.50)},
	{Name: "Alfalfa Hay Bale", Description: "Alfalfa hay, small square bale", Category: models.CategoryFeedNutrition, UnitType: "bales", CostPerUnit: floatPtr(12.00)},
	{Name: "Ivermectin Paste Wormer", Description: "Single dose dewormer tube, 1.87%", Category: models.CategoryHealthMedical, Brand: strPtr("Farnam"), UnitType: "tubes", CostPerUnit: floatPtr(8.99)},
	{Name: "Veterycin Wound Spray", Description: "Wound and skin care spray, 16 oz", Category: models.CategoryHealthMedical, UnitType: "bottles", CostPerUnit: floatPtr(29.99)},
	{Name: "Liniment Gel", Description: "Cooling liniment gel, 12 oz", Category: models.CategoryHealthMedical, Brand: strPtr("Absorbine"), UnitType: "bottles", CostPerUnit: floatPtr(11.49)},
	{Name: "Mane and Tail Shampoo", Description: "Horse shampoo, 32 oz bottle", Category: models.CategoryGrooming, UnitType: "bottles", CostPerUnit: floatPtr(7.99)},
	{Name: "ShowSheen Detangler", Description: "Hair polish and detangler spray, 32 oz", Category: models.CategoryGrooming, Brand: strPtr("Absorbine"), UnitType: "bottles", CostPerUnit: floatPtr(13.99)},
	{Name: "Curry Comb", Description: "Rubber curry comb", Category: models.CategoryGrooming, UnitType: "each", CostPerUnit: floatPtr(4.99)},
	{Name: "Leather Halter", Description: "Adjustable leather halter, horse size", Category: models.CategoryTackEquipment, UnitType: "each", CostPerUnit: floatPtr(39.99)},
	{Name: "Cotton Lead Rope", Description: "10 ft cotton lead rope with brass snap", Category: models.CategoryTackEquipment, UnitType: "each", CostPerUnit: floatPtr(9.99)},
	{Name: "Pine Shavings", Description: "Premium pine shavings, compressed bag", Category: models.CategoryBedding, UnitType: "bags", CostPerUnit: floatPtr(6.49)},
	{Name: "Straw Bale", Description: "Wheat straw bedding bale", Category: models.CategoryBedding, UnitType: "bales", CostPerUnit: floatPtr(5.50)},
	{Name: "Stall Fork", Description: "Fine tine manure fork", Category: models.CategoryFacilityMaintenance, UnitType: "each", CostPerUnit: floatPtr(19.99)},
	{Name: "Fly Spray", Description: "Water-based fly repellent, 32 oz", Category: models.CategoryFacilityMaintenance, Brand: strPtr("Farnam"), UnitType: "bottles", CostPerUnit: floatPtr(16.99)},
}

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	categoryFilter := flag.String("category", "", "Only seed supplies in this category (e.g., 'feed_nutrition')")
	localFile := flag.String("file", "", "Load catalog from a CSV file instead of the built-in starter set")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Starting supply catalog seed...")

	var seeds []SupplySeed
	if *localFile != "" {
		file, err := os.Open(*localFile)
		if err != nil {
			log.Fatalf("Failed to open catalog file: %v", err)
		}
		defer file.Close()
		seeds, err = parseCatalogCSV(file)
		if err != nil {
			log.Fatalf("Failed to parse catalog file: %v", err)
		}
		log.Printf("Loaded %d supplies from %s", len(seeds), *localFile)
	} else {
		seeds = starterCatalog
		log.Printf("Using built-in starter catalog (%d supplies)", len(seeds))
	}

	seeds = filterByCategory(seeds, *categoryFilter)
	sort.Slice(seeds, func(i, j int) bool {
		if seeds[i].Category != seeds[j].Category {
			return seeds[i].Category < seeds[j].Category
		}
		return seeds[i].Name < seeds[j].Name
	})

	log.Printf("Found %d supplies to seed", len(seeds))

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(seeds)
		return
	}

	inserted, skipped, err := seedSupplies(db, seeds)
	if err != nil {
		log.Fatalf("Failed to seed supplies: %v", err)
	}

	log.Printf("Seed complete: %d new supplies, %d already present", inserted, skipped)
}

// parseCatalogCSV reads supply rows from a CSV file.
// Expected header: name,description,category,brand,unit_type,cost_per_unit
func parseCatalogCSV(reader io.Reader) ([]SupplySeed, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	field := func(record []string, name string) string {
		idx, ok := colMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var seeds []SupplySeed
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed row: %v", err)
			continue
		}

		name := field(record, "name")
		if name == "" {
			continue
		}

		seed := SupplySeed{
			Name:        name,
			Description: field(record, "description"),
			Category:    models.CoerceCategory(field(record, "category")),
			UnitType:    field(record, "unit_type"),
		}
		if seed.UnitType == "" {
			seed.UnitType = "each"
		}
		if brand := field(record, "brand"); brand != "" {
			seed.Brand = &brand
		}
		if costStr := field(record, "cost_per_unit"); costStr != "" {
			if cost, err := strconv.ParseFloat(costStr, 64); err == nil && cost >= 0 {
				seed.CostPerUnit = &cost
			}
		}

		seeds = append(seeds, seed)
	}

	return seeds, nil
}

// filterByCategory keeps only supplies in the given category; empty filter
// keeps everything.
func filterByCategory(seeds []SupplySeed, category string) []SupplySeed {
	if category == "" {
		return seeds
	}

	var filtered []SupplySeed
	for _, seed := range seeds {
		if string(seed.Category) == strings.ToLower(strings.TrimSpace(category)) {
			filtered = append(filtered, seed)
		}
	}
	return filtered
}

// seedSupplies inserts the catalog rows in a single transaction, skipping
// names that already exist.
func seedSupplies(db *database.DB, seeds []SupplySeed) (inserted, skipped int, err error) {
	ctx := context.Background()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, seed := range seeds {
		var existingID int
		err := tx.QueryRow(ctx, `
			SELECT id FROM supplies WHERE LOWER(name) = LOWER($1)
		`, seed.Name).Scan(&existingID)

		if err == pgx.ErrNoRows {
			_, err = tx.Exec(ctx, `
				INSERT INTO supplies (name, description, category, brand, unit_type, last_cost_per_unit, is_active)
				VALUES ($1, $2, $3, $4, $5, $6, TRUE)
			`, seed.Name, seed.Description, seed.Category, seed.Brand, seed.UnitType, seed.CostPerUnit)
			if err != nil {
				return inserted, skipped, fmt.Errorf("failed to insert %s: %w", seed.Name, err)
			}
			inserted++
		} else if err != nil {
			return inserted, skipped, fmt.Errorf("failed to check existing %s: %w", seed.Name, err)
		} else {
			skipped++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, skipped, nil
}

// printPreview shows the catalog to be seeded, grouped by category
func printPreview(seeds []SupplySeed) {
	fmt.Println("\n=== Preview of supplies to seed ===")
	fmt.Printf("Total: %d supplies\n\n", len(seeds))

	categoryCount := make(map[models.SupplyCategory]int)
	for _, seed := range seeds {
		categoryCount[seed.Category]++
	}

	fmt.Println("Supplies per category:")
	categories := make([]string, 0, len(categoryCount))
	for c := range categoryCount {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Printf("  %s: %d\n", c, categoryCount[models.SupplyCategory(c)])
	}

	fmt.Println("\nSupplies:")
	for _, seed := range seeds {
		brand := "-"
		if seed.Brand != nil {
			brand = *seed.Brand
		}
		fmt.Printf("  [%s] %s (%s, %s)\n", seed.Category, seed.Name, brand, seed.UnitType)
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
