package http

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/auth"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// respondError maps service errors onto HTTP statuses. Anything unmapped is
// a 500 with the detail kept out of the response.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Message,
		})
	}

	var transitionErr *domain.TransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": transitionErr.Error(),
			"from":  transitionErr.From,
			"to":    transitionErr.To,
		})
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":          conflictErr.Error(),
			"roomNumber":     conflictErr.RoomNumber,
			"conflicts":      conflictErr.Conflicts,
			"suggestedRooms": conflictErr.SuggestedRooms,
		})
	}

	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrGuestNotFound),
		errors.Is(err, domain.ErrStaffNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrPeriodNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, application.ErrTooManyAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, domain.ErrRoomInUse),
		errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded):
		// A storage call ran past its deadline. The request may be retried.
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "storage timeout, retry shortly",
		})
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
