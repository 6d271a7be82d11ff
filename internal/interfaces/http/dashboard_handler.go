package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
)

type DashboardHandler struct {
	service *application.DashboardService
}

// NewDashboardHandler builds the dashboard handler.
func NewDashboardHandler(service *application.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary returns the front-desk overview.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
