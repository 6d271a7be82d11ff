package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type StaffHandler struct {
	service *application.StaffService
}

// NewStaffHandler builds the staff admin handler.
func NewStaffHandler(service *application.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

type createStaffRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin manager reception housekeeping"`
}

type updateStaffRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager reception housekeeping"`
	Active   *bool  `json:"active"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// Create registers an account.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req createStaffRequest
	if !parseBody(c, &req) {
		return nil
	}

	account, err := h.service.Create(c.Context(), req.Name, req.Email, req.Password, domain.StaffRole(req.Role))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// List returns all accounts.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	accounts, err := h.service.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"staff": accounts})
}

// Get returns one account.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	account, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(account)
}

// Update changes name, role, active flag or password.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req updateStaffRequest
	if !parseBody(c, &req) {
		return nil
	}

	current, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	active := current.Active
	if req.Active != nil {
		active = *req.Active
	}
	account, err := h.service.Update(c.Context(), c.Params("id"), req.Name, domain.StaffRole(req.Role), active, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(account)
}

// Delete removes an account.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "staff account deleted"})
}
