package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stonegate/stablekeeper/internal/database"
	"github.com/stonegate/stablekeeper/internal/middleware"
	"github.com/stonegate/stablekeeper/internal/models"
)

// ListTransactions returns a paginated list of the user's purchase transactions
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	params := &models.TransactionListParams{
		UserID: userID,
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}

	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	if status := c.Query("status"); status != "" {
		params.Status = &status
	}

	txns, total, err := h.db.ListTransactions(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list transactions")
	}

	return SuccessWithMeta(c, txns, total, params.Limit, params.Offset)
}

// GetTransaction returns a single transaction with its items
func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid transaction ID")
	}

	txn, err := h.db.GetTransactionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrTransactionNotFound) {
			return Error(c, fiber.StatusNotFound, "transaction not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get transaction")
	}

	if txn.UserID != userID {
		return Error(c, fiber.StatusForbidden, "access denied")
	}

	if h.storage != nil && txn.ImageKey != nil {
		if url, err := h.storage.GetPresignedURL(c.Context(), *txn.ImageKey, 1*time.Hour); err == nil {
			txn.ImageURL = &url
		}
	}

	return Success(c, txn)
}

// ReviewTransaction marks a flagged transaction as reviewed
func (h *Handler) ReviewTransaction(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid transaction ID")
	}

	existing, err := h.db.GetTransactionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrTransactionNotFound) {
			return Error(c, fiber.StatusNotFound, "transaction not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get transaction")
	}

	if existing.UserID != userID {
		return Error(c, fiber.StatusForbidden, "access denied")
	}

	txn, err := h.db.MarkTransactionReviewed(c.Context(), id)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to update transaction")
	}

	return Success(c, txn)
}

// DeleteTransaction removes a transaction, its items, and its stored image
func (h *Handler) DeleteTransaction(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid transaction ID")
	}

	txn, err := h.db.GetTransactionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrTransactionNotFound) {
			return Error(c, fiber.StatusNotFound, "transaction not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get transaction")
	}

	if txn.UserID != userID {
		return Error(c, fiber.StatusForbidden, "access denied")
	}

	if h.storage != nil && txn.ImageKey != nil {
		if err := h.storage.Delete(c.Context(), *txn.ImageKey); err != nil {
			log.Printf("Warning: Failed to delete image %s for transaction %d: %v", *txn.ImageKey, id, err)
		}
	}

	if err := h.db.DeleteTransaction(c.Context(), id); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete transaction")
	}

	return Success(c, fiber.Map{"deleted": true})
}
