package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/stonegate/stablekeeper/internal/database"
	"github.com/stonegate/stablekeeper/internal/middleware"
	"github.com/stonegate/stablekeeper/internal/models"
)

// ListSupplies returns a filtered, paginated list of catalog supplies
func (h *Handler) ListSupplies(c *fiber.Ctx) error {
	params := &models.SupplyListParams{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	if params.Limit < 1 || params.Limit > 200 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	if category := c.Query("category"); category != "" {
		coerced := string(models.CoerceCategory(category))
		params.Category = &coerced
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active := activeStr == "true"
		params.Active = &active
	}
	if search := c.Query("search"); search != "" {
		params.Search = &search
	}

	supplies, total, err := h.db.ListSupplies(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list supplies")
	}

	return SuccessWithMeta(c, supplies, total, params.Limit, params.Offset)
}

// GetSupply returns a single supply
func (h *Handler) GetSupply(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid supply ID")
	}

	supply, err := h.db.GetSupplyByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrSupplyNotFound) {
			return Error(c, fiber.StatusNotFound, "supply not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get supply")
	}

	return Success(c, supply)
}

// CreateSupply adds a new catalog entry
func (h *Handler) CreateSupply(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.CreateSupplyRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.UnitType == "" {
		req.UnitType = "each"
	}

	supply, err := h.db.CreateSupply(c.Context(), &req, userID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create supply")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: supply})
}

// UpdateSupply applies a partial update to a supply
func (h *Handler) UpdateSupply(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid supply ID")
	}

	var req models.UpdateSupplyRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	supply, err := h.db.UpdateSupply(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrSupplyNotFound) {
			return Error(c, fiber.StatusNotFound, "supply not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update supply")
	}

	return Success(c, supply)
}

// AdjustSupplyStock applies a manual stock adjustment
func (h *Handler) AdjustSupplyStock(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid supply ID")
	}

	var req models.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Delta == 0 {
		return Error(c, fiber.StatusBadRequest, "delta must be non-zero")
	}

	supply, err := h.db.AdjustStock(c.Context(), id, req.Delta, nil)
	if err != nil {
		if errors.Is(err, database.ErrSupplyNotFound) {
			return Error(c, fiber.StatusNotFound, "supply not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to adjust stock")
	}

	return Success(c, supply)
}

// DeleteSupply deactivates a supply
func (h *Handler) DeleteSupply(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid supply ID")
	}

	if err := h.db.DeleteSupply(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrSupplyNotFound) {
			return Error(c, fiber.StatusNotFound, "supply not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete supply")
	}

	return Success(c, fiber.Map{"deleted": true})
}
