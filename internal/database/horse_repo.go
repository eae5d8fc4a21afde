package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stonegate/stablekeeper/internal/models"
)

var ErrHorseNotFound = errors.New("horse not found")

const horseColumns = `
	id, name, breed, color, date_of_birth, owner_name, stall_number,
	feeding_notes, medical_notes, is_active, created_by, created_at, updated_at`

func scanHorse(row pgx.Row) (*models.Horse, error) {
	horse := &models.Horse{}
	err := row.Scan(
		&horse.ID,
		&horse.Name,
		&horse.Breed,
		&horse.Color,
		&horse.DateOfBirth,
		&horse.OwnerName,
		&horse.StallNumber,
		&horse.FeedingNotes,
		&horse.MedicalNotes,
		&horse.IsActive,
		&horse.CreatedBy,
		&horse.CreatedAt,
		&horse.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHorseNotFound
		}
		return nil, err
	}
	return horse, nil
}

// CreateHorse registers a new horse
func (db *DB) CreateHorse(ctx context.Context, req *models.CreateHorseRequest, userID int) (*models.Horse, error) {
	var dob *time.Time
	if req.DateOfBirth != nil {
		if parsed, err := time.Parse("2006-01-02", *req.DateOfBirth); err == nil {
			dob = &parsed
		}
	}

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO horses (name, breed, color, date_of_birth, owner_name, stall_number,
			feeding_notes, medical_notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING `+horseColumns,
		req.Name, req.Breed, req.Color, dob, req.OwnerName, req.StallNumber,
		req.FeedingNotes, req.MedicalNotes, userID,
	)

	return scanHorse(row)
}

// GetHorseByID retrieves a horse by ID
func (db *DB) GetHorseByID(ctx context.Context, id int) (*models.Horse, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+horseColumns+` FROM horses WHERE id = $1`, id)
	return scanHorse(row)
}

// ListHorses returns a paginated list of horses and the total count
func (db *DB) ListHorses(ctx context.Context, params *models.HorseListParams) ([]models.Horse, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if params.Active != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *params.Active)
		argIdx++
	}

	var total int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM horses "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM horses %s ORDER BY name LIMIT $%d OFFSET $%d",
		horseColumns, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	horses := []models.Horse{}
	for rows.Next() {
		horse, err := scanHorse(rows)
		if err != nil {
			return nil, 0, err
		}
		horses = append(horses, *horse)
	}

	return horses, total, rows.Err()
}

// UpdateHorse applies a partial update to a horse
func (db *DB) UpdateHorse(ctx context.Context, id int, req *models.UpdateHorseRequest) (*models.Horse, error) {
	var dob *time.Time
	if req.DateOfBirth != nil {
		if parsed, err := time.Parse("2006-01-02", *req.DateOfBirth); err == nil {
			dob = &parsed
		}
	}

	row := db.Pool.QueryRow(ctx, `
		UPDATE horses SET
			name = COALESCE($2, name),
			breed = COALESCE($3, breed),
			color = COALESCE($4, color),
			date_of_birth = COALESCE($5, date_of_birth),
			owner_name = COALESCE($6, owner_name),
			stall_number = COALESCE($7, stall_number),
			feeding_notes = COALESCE($8, feeding_notes),
			medical_notes = COALESCE($9, medical_notes),
			is_active = COALESCE($10, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+horseColumns,
		id, req.Name, req.Breed, req.Color, dob, req.OwnerName, req.StallNumber,
		req.FeedingNotes, req.MedicalNotes, req.IsActive,
	)

	return scanHorse(row)
}

// DeleteHorse removes a horse record
func (db *DB) DeleteHorse(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM horses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrHorseNotFound
	}
	return nil
}
