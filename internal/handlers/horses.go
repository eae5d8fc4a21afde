package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/stonegate/stablekeeper/internal/database"
	"github.com/stonegate/stablekeeper/internal/middleware"
	"github.com/stonegate/stablekeeper/internal/models"
)

// ListHorses returns a paginated list of horses
func (h *Handler) ListHorses(c *fiber.Ctx) error {
	params := &models.HorseListParams{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	if activeStr := c.Query("active"); activeStr != "" {
		active := activeStr == "true"
		params.Active = &active
	}

	horses, total, err := h.db.ListHorses(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list horses")
	}

	return SuccessWithMeta(c, horses, total, params.Limit, params.Offset)
}

// GetHorse returns a single horse
func (h *Handler) GetHorse(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid horse ID")
	}

	horse, err := h.db.GetHorseByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrHorseNotFound) {
			return Error(c, fiber.StatusNotFound, "horse not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get horse")
	}

	return Success(c, horse)
}

// CreateHorse registers a new horse
func (h *Handler) CreateHorse(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.CreateHorseRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	horse, err := h.db.CreateHorse(c.Context(), &req, userID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create horse")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: horse})
}

// UpdateHorse updates a horse record
func (h *Handler) UpdateHorse(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid horse ID")
	}

	var req models.UpdateHorseRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	horse, err := h.db.UpdateHorse(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrHorseNotFound) {
			return Error(c, fiber.StatusNotFound, "horse not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update horse")
	}

	return Success(c, horse)
}

// DeleteHorse removes a horse record
func (h *Handler) DeleteHorse(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid horse ID")
	}

	if err := h.db.DeleteHorse(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrHorseNotFound) {
			return Error(c, fiber.StatusNotFound, "horse not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete horse")
	}

	return Success(c, fiber.Map{"deleted": true})
}
