package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stonegate/stablekeeper/internal/models"
)

var ErrSupplyNotFound = errors.New("supply not found")

const supplyColumns = `
	id, name, description, category, brand, unit_type, current_stock,
	minimum_stock, last_cost_per_unit, is_active, expiration_tracking,
	created_by, created_at, updated_at`

func scanSupply(row pgx.Row) (*models.Supply, error) {
	supply := &models.Supply{}
	err := row.Scan(
		&supply.ID,
		&supply.Name,
		&supply.Description,
		&supply.Category,
		&supply.Brand,
		&supply.UnitType,
		&supply.CurrentStock,
		&supply.MinimumStock,
		&supply.LastCostPerUnit,
		&supply.IsActive,
		&supply.ExpirationTracking,
		&supply.CreatedBy,
		&supply.CreatedAt,
		&supply.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSupplyNotFound
		}
		return nil, err
	}
	return supply, nil
}

// CreateSupply creates a new supply catalog entry
func (db *DB) CreateSupply(ctx context.Context, req *models.CreateSupplyRequest, userID int) (*models.Supply, error) {
	category := models.CoerceCategory(req.Category)

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO supplies (name, description, category, brand, unit_type, current_stock,
			minimum_stock, last_cost_per_unit, expiration_tracking, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING `+supplyColumns,
		req.Name, req.Description, category, req.Brand, req.UnitType,
		req.CurrentStock, req.MinimumStock, req.LastCostPerUnit,
		req.ExpirationTracking, userID,
	)

	return scanSupply(row)
}

// GetSupplyByID retrieves a supply by ID
func (db *DB) GetSupplyByID(ctx context.Context, id int) (*models.Supply, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1`, id)
	return scanSupply(row)
}

// ListSupplies returns a filtered, paginated list of supplies and the total count
func (db *DB) ListSupplies(ctx context.Context, params *models.SupplyListParams) ([]models.Supply, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if params.Category != nil {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, *params.Category)
		argIdx++
	}
	if params.Active != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *params.Active)
		argIdx++
	}
	if params.Search != nil {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*params.Search+"%")
		argIdx++
	}

	var total int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM supplies "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM supplies %s ORDER BY name LIMIT $%d OFFSET $%d",
		supplyColumns, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	supplies := []models.Supply{}
	for rows.Next() {
		supply, err := scanSupply(rows)
		if err != nil {
			return nil, 0, err
		}
		supplies = append(supplies, *supply)
	}

	return supplies, total, rows.Err()
}

// GetActiveCatalog returns the full active supply catalog for matching
func (db *DB) GetActiveCatalog(ctx context.Context) ([]models.Supply, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE is_active = TRUE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	supplies := []models.Supply{}
	for rows.Next() {
		supply, err := scanSupply(rows)
		if err != nil {
			return nil, err
		}
		supplies = append(supplies, *supply)
	}

	return supplies, rows.Err()
}

// UpdateSupply applies a partial update to a supply
func (db *DB) UpdateSupply(ctx context.Context, id int, req *models.UpdateSupplyRequest) (*models.Supply, error) {
	var category *models.SupplyCategory
	if req.Category != nil {
		c := models.CoerceCategory(*req.Category)
		category = &c
	}

	row := db.Pool.QueryRow(ctx, `
		UPDATE supplies SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			category = COALESCE($4, category),
			brand = COALESCE($5, brand),
			unit_type = COALESCE($6, unit_type),
			minimum_stock = COALESCE($7, minimum_stock),
			last_cost_per_unit = COALESCE($8, last_cost_per_unit),
			is_active = COALESCE($9, is_active),
			expiration_tracking = COALESCE($10, expiration_tracking),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+supplyColumns,
		id, req.Name, req.Description, category, req.Brand, req.UnitType,
		req.MinimumStock, req.LastCostPerUnit, req.IsActive, req.ExpirationTracking,
	)

	return scanSupply(row)
}

// AdjustStock applies a stock delta and optionally records the latest unit cost
func (db *DB) AdjustStock(ctx context.Context, id int, delta float64, costPerUnit *float64) (*models.Supply, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE supplies SET
			current_stock = GREATEST(current_stock + $2, 0),
			last_cost_per_unit = COALESCE($3, last_cost_per_unit),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+supplyColumns,
		id, delta, costPerUnit,
	)

	return scanSupply(row)
}

// DeleteSupply deactivates a supply (soft delete, history references remain valid)
func (db *DB) DeleteSupply(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE supplies SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSupplyNotFound
	}
	return nil
}
