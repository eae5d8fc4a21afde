package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stonegate/stablekeeper/internal/models"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const transactionColumns = `
	id, user_id, vendor_name, purchase_date, receipt_number, subtotal, tax_amount,
	total_amount, status, ai_processed, ai_confidence, manual_review_required,
	notes, image_bucket, image_key, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.SupplyTransaction, error) {
	txn := &models.SupplyTransaction{}
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.VendorName,
		&txn.PurchaseDate,
		&txn.ReceiptNumber,
		&txn.Subtotal,
		&txn.TaxAmount,
		&txn.TotalAmount,
		&txn.Status,
		&txn.AIProcessed,
		&txn.AIConfidence,
		&txn.ManualReviewRequired,
		&txn.Notes,
		&txn.ImageBucket,
		&txn.ImageKey,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return txn, nil
}

// CreateTransaction persists a processed receipt and its line items
// atomically.
func (db *DB) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.TransactionWithItems, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status := models.TransactionStatusRecorded
	if req.ManualReviewRequired {
		status = models.TransactionStatusNeedsReview
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO supply_transactions (user_id, vendor_name, purchase_date, receipt_number,
			subtotal, tax_amount, total_amount, status, ai_processed, ai_confidence,
			manual_review_required, notes, image_bucket, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING `+transactionColumns,
		req.UserID, req.VendorName, req.PurchaseDate, req.ReceiptNumber,
		req.Subtotal, req.TaxAmount, req.TotalAmount, status, req.AIProcessed,
		req.AIConfidence, req.ManualReviewRequired, req.Notes, req.ImageBucket, req.ImageKey,
	)

	txn, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}

	items := []models.TransactionItem{}
	for _, line := range req.Items {
		item := models.TransactionItem{}
		err := tx.QueryRow(ctx, `
			INSERT INTO transaction_items (transaction_id, description, quantity, unit_price,
				total_price, category, supply_id, matched_supply_name, match_confidence,
				ai_matched, needs_review, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
			RETURNING id, transaction_id, description, quantity, unit_price, total_price,
				category, supply_id, matched_supply_name, match_confidence, ai_matched,
				needs_review, created_at
		`, txn.ID, line.Description, line.Quantity, line.UnitPrice, line.TotalPrice,
			line.Category, line.SupplyID, nullableString(line.MatchedSupplyName),
			nullableFloat(line.MatchConfidence, line.AIMatched), line.AIMatched,
			line.ManualReviewRequired,
		).Scan(
			&item.ID,
			&item.TransactionID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.Category,
			&item.SupplyID,
			&item.MatchedSupplyName,
			&item.MatchConfidence,
			&item.AIMatched,
			&item.NeedsReview,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert transaction item: %w", err)
		}
		items = append(items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransactionWithItems{SupplyTransaction: *txn, Items: items}, nil
}

// GetTransactionByID retrieves a transaction with its items
func (db *DB) GetTransactionByID(ctx context.Context, id int) (*models.TransactionWithItems, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM supply_transactions WHERE id = $1`, id)
	txn, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, transaction_id, description, quantity, unit_price, total_price,
			category, supply_id, matched_supply_name, match_confidence, ai_matched,
			needs_review, created_at
		FROM transaction_items
		WHERE transaction_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.TransactionItem{}
	for rows.Next() {
		item := models.TransactionItem{}
		err := rows.Scan(
			&item.ID,
			&item.TransactionID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.Category,
			&item.SupplyID,
			&item.MatchedSupplyName,
			&item.MatchConfidence,
			&item.AIMatched,
			&item.NeedsReview,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &models.TransactionWithItems{SupplyTransaction: *txn, Items: items}, rows.Err()
}

// ListTransactions returns a paginated list of transactions and the total count
func (db *DB) ListTransactions(ctx context.Context, params *models.TransactionListParams) ([]models.SupplyTransaction, int, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{params.UserID}
	argIdx := 2

	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *params.Status)
		argIdx++
	}

	var total int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM supply_transactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM supply_transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		transactionColumns, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	txns := []models.SupplyTransaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, *txn)
	}

	return txns, total, rows.Err()
}

// MarkTransactionReviewed clears the review flag after a human has checked
// the record.
func (db *DB) MarkTransactionReviewed(ctx context.Context, id int) (*models.SupplyTransaction, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE supply_transactions
		SET status = 'reviewed', manual_review_required = FALSE, updated_at = NOW()
		WHERE id = $1
		RETURNING `+transactionColumns, id)
	return scanTransaction(row)
}

// DeleteTransaction removes a transaction and its items
func (db *DB) DeleteTransaction(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM supply_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableFloat(f float64, present bool) *float64 {
	if !present {
		return nil
	}
	return &f
}
