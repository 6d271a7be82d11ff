package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
)

type AuthHandler struct {
	service *application.StaffService
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(service *application.StaffService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Login opens a session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if !parseBody(c, &req) {
		return nil
	}

	pair, err := h.service.Login(c.Context(), req.Email, req.Password, c.IP())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pair)
}

// Refresh rotates a refresh token.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if !parseBody(c, &req) {
		return nil
	}

	pair, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pair)
}

// Logout revokes a refresh token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	if !parseBody(c, &req) {
		return nil
	}

	if err := h.service.Logout(c.Context(), req.RefreshToken); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me returns the calling account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	account, err := h.service.GetByID(c.Context(), staffID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(account)
}
