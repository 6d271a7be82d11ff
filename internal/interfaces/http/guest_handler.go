package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type GuestHandler struct {
	service *application.GuestService
}

// NewGuestHandler builds the guest handler.
func NewGuestHandler(service *application.GuestService) *GuestHandler {
	return &GuestHandler{service: service}
}

type guestRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Document string `json:"document"`
	Notes    string `json:"notes"`
	Blocked  bool   `json:"blocked"`
}

// Create registers a guest.
func (h *GuestHandler) Create(c *fiber.Ctx) error {
	var req guestRequest
	if !parseBody(c, &req) {
		return nil
	}

	guest := &domain.Guest{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Document: req.Document,
		Notes:    req.Notes,
		Blocked:  req.Blocked,
	}
	if err := h.service.Create(c.Context(), guest); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(guest)
}

// Search lists guests matching ?q=.
func (h *GuestHandler) Search(c *fiber.Ctx) error {
	guests, err := h.service.Search(c.Context(), c.Query("q"), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"guests": guests})
}

// Get returns one guest.
func (h *GuestHandler) Get(c *fiber.Ctx) error {
	guest, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(guest)
}

// History lists a guest's reservations.
func (h *GuestHandler) History(c *fiber.Ctx) error {
	reservations, err := h.service.History(c.Context(), c.Params("id"), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reservations": reservations})
}

// Update rewrites a guest.
func (h *GuestHandler) Update(c *fiber.Ctx) error {
	var req guestRequest
	if !parseBody(c, &req) {
		return nil
	}

	current, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	current.Name = req.Name
	current.Phone = req.Phone
	current.Email = req.Email
	current.Document = req.Document
	current.Notes = req.Notes
	current.Blocked = req.Blocked

	if err := h.service.Update(c.Context(), current); err != nil {
		return respondError(c, err)
	}
	return c.JSON(current)
}

// Delete removes a guest.
func (h *GuestHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "guest deleted"})
}
