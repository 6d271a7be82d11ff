package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type RoomHandler struct {
	service *application.RoomService
}

// NewRoomHandler builds the room handler.
func NewRoomHandler(service *application.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

type createRoomRequest struct {
	Number   string             `json:"number" validate:"required"`
	Category string             `json:"category" validate:"required"`
	Capacity int                `json:"capacity" validate:"gte=0"`
	Floor    int                `json:"floor"`
	Notes    string             `json:"notes"`
	Rates    map[string]float64 `json:"rates" validate:"omitempty,dive,gte=0"`
	Status   string             `json:"status" validate:"omitempty,oneof=available occupied cleaning maintenance blocked"`
}

type updateRoomRequest struct {
	Number   string             `json:"number" validate:"required"`
	Category string             `json:"category" validate:"required"`
	Capacity int                `json:"capacity" validate:"gte=0"`
	Floor    int                `json:"floor"`
	Notes    string             `json:"notes"`
	Rates    map[string]float64 `json:"rates" validate:"omitempty,dive,gte=0"`
}

type roomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied cleaning maintenance blocked"`
}

// Create registers a room.
func (h *RoomHandler) Create(c *fiber.Ctx) error {
	var req createRoomRequest
	if !parseBody(c, &req) {
		return nil
	}

	room := &domain.Room{
		Number:   req.Number,
		Category: req.Category,
		Capacity: req.Capacity,
		Floor:    req.Floor,
		Notes:    req.Notes,
		Rates:    req.Rates,
		Status:   domain.RoomStatus(req.Status),
	}
	if err := h.service.Create(c.Context(), room); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

// List returns rooms, optionally filtered by ?status=.
func (h *RoomHandler) List(c *fiber.Ctx) error {
	rooms, err := h.service.List(c.Context(), domain.RoomStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

// Availability returns every room with a free/busy flag for ?from=&to=
// (RFC3339).
func (h *RoomHandler) Availability(c *fiber.Ctx) error {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid from, expected RFC3339 timestamp",
		})
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid to, expected RFC3339 timestamp",
		})
	}

	board, err := h.service.Availability(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"rooms": board})
}

// Get returns one room.
func (h *RoomHandler) Get(c *fiber.Ctx) error {
	room, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(room)
}

// Update rewrites a room's descriptive fields.
func (h *RoomHandler) Update(c *fiber.Ctx) error {
	var req updateRoomRequest
	if !parseBody(c, &req) {
		return nil
	}

	room := &domain.Room{
		ID:       c.Params("id"),
		Number:   req.Number,
		Category: req.Category,
		Capacity: req.Capacity,
		Floor:    req.Floor,
		Notes:    req.Notes,
		Rates:    req.Rates,
	}
	if err := h.service.Update(c.Context(), room); err != nil {
		return respondError(c, err)
	}
	return c.JSON(room)
}

// ChangeStatus sets the operational status by hand.
func (h *RoomHandler) ChangeStatus(c *fiber.Ctx) error {
	var req roomStatusRequest
	if !parseBody(c, &req) {
		return nil
	}

	room, err := h.service.ChangeStatus(c.Context(), c.Params("id"), domain.RoomStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(room)
}

// MarkCleaned is housekeeping's turnover call.
func (h *RoomHandler) MarkCleaned(c *fiber.Ctx) error {
	room, err := h.service.MarkCleaned(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(room)
}

// Delete removes a room without active reservations.
func (h *RoomHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "room deleted"})
}
