package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type PeriodHandler struct {
	service *application.PeriodService
}

// NewPeriodHandler builds the period handler.
func NewPeriodHandler(service *application.PeriodService) *PeriodHandler {
	return &PeriodHandler{service: service}
}

type createPeriodRequest struct {
	Code      string  `json:"code" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Duration  int     `json:"durationMinutes" validate:"required,gt=0"`
	BasePrice float64 `json:"basePrice" validate:"gte=0"`
}

type updatePeriodRequest struct {
	Name      string  `json:"name" validate:"required"`
	Duration  int     `json:"durationMinutes" validate:"required,gt=0"`
	BasePrice float64 `json:"basePrice" validate:"gte=0"`
	Active    bool    `json:"active"`
}

// List returns the active period types.
func (h *PeriodHandler) List(c *fiber.Ctx) error {
	periods, err := h.service.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"periods": periods})
}

// Create adds a period type.
func (h *PeriodHandler) Create(c *fiber.Ctx) error {
	var req createPeriodRequest
	if !parseBody(c, &req) {
		return nil
	}

	period := &domain.PeriodType{
		Code:      req.Code,
		Name:      req.Name,
		Duration:  req.Duration,
		BasePrice: req.BasePrice,
	}
	if err := h.service.Create(c.Context(), period); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(period)
}

// Update rewrites a period type.
func (h *PeriodHandler) Update(c *fiber.Ctx) error {
	var req updatePeriodRequest
	if !parseBody(c, &req) {
		return nil
	}

	current, err := h.service.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	current.Name = req.Name
	current.Duration = req.Duration
	current.BasePrice = req.BasePrice
	current.Active = req.Active

	if err := h.service.Update(c.Context(), current); err != nil {
		return respondError(c, err)
	}
	return c.JSON(current)
}

// Refresh forces a cache reload and reports its state.
func (h *PeriodHandler) Refresh(c *fiber.Ctx) error {
	lastRefresh, degraded, err := h.service.RefreshCache(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":       "period cache refresh failed",
			"lastRefresh": lastRefresh,
			"degraded":    degraded,
		})
	}
	return c.JSON(fiber.Map{
		"lastRefresh": lastRefresh,
		"degraded":    degraded,
	})
}
