package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type ReservationHandler struct {
	service *application.ReservationService
}

// NewReservationHandler builds the reservation handler.
func NewReservationHandler(service *application.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

type createReservationRequest struct {
	// RoomID may be omitted; the first free room is then assigned.
	RoomID        string   `json:"roomId"`
	GuestID       string   `json:"guestId"`
	GuestName     string   `json:"guestName"`
	GuestPhone    string   `json:"guestPhone"`
	GuestEmail    string   `json:"guestEmail" validate:"omitempty,email"`
	GuestDoc      string   `json:"guestDocument"`
	PeriodCode    string   `json:"periodCode" validate:"required"`
	CheckIn       string   `json:"checkIn" validate:"required"`
	CheckOut      string   `json:"checkOut"`
	Source        string   `json:"source" validate:"omitempty,oneof=front_desk phone online"`
	Notes         string   `json:"notes"`
	TotalPrice    *float64 `json:"totalPrice" validate:"omitempty,gt=0"`
	PaymentMethod string   `json:"paymentMethod" validate:"omitempty,oneof=cash card pix transfer"`
	// NoSubstitute forces a conflict answer instead of moving the booking
	// to another room.
	NoSubstitute bool `json:"noSubstitute"`
}

type updateReservationRequest struct {
	RoomID     string   `json:"roomId"`
	PeriodCode string   `json:"periodCode"`
	CheckIn    string   `json:"checkIn"`
	CheckOut   string   `json:"checkOut"`
	Notes      *string  `json:"notes"`
	TotalPrice *float64 `json:"totalPrice" validate:"omitempty,gt=0"`
}

type checkConflictsRequest struct {
	RoomID   string `json:"roomId" validate:"required"`
	CheckIn  string `json:"checkIn" validate:"required"`
	CheckOut string `json:"checkOut" validate:"required"`
	// ExcludeID skips one reservation, for re-checking an edit.
	ExcludeID string `json:"excludeId"`
}

type recordPaymentRequest struct {
	Method string `json:"method" validate:"required,oneof=cash card pix transfer"`
	Status string `json:"status" validate:"required,oneof=pending paid refunded"`
}

type statusChangeRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed checked-in checked-out cancelled"`
}

// Create books a room. 201 on success (roomChanged set when substituted),
// 409 with conflicts and suggestions when nothing fits.
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var req createReservationRequest
	if !parseBody(c, &req) {
		return nil
	}

	checkIn, err := time.Parse(time.RFC3339, req.CheckIn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid checkIn, expected RFC3339 timestamp",
		})
	}
	var checkOut time.Time
	if req.CheckOut != "" {
		checkOut, err = time.Parse(time.RFC3339, req.CheckOut)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid checkOut, expected RFC3339 timestamp",
			})
		}
	}

	result, err := h.service.Create(c.Context(), application.CreateReservationInput{
		RoomID:          req.RoomID,
		GuestID:         req.GuestID,
		GuestName:       req.GuestName,
		GuestPhone:      req.GuestPhone,
		GuestEmail:      req.GuestEmail,
		GuestDoc:        req.GuestDoc,
		PeriodCode:      req.PeriodCode,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Source:          domain.ReservationSource(req.Source),
		Notes:           req.Notes,
		PriceOverride:   req.TotalPrice,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		AllowSubstitute: !req.NoSubstitute,
		CreatedBy:       staffID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update edits the dates, period, room, notes or price of a booking that
// has not started. Conflicts come back as 409 with suggestions.
func (h *ReservationHandler) Update(c *fiber.Ctx) error {
	var req updateReservationRequest
	if !parseBody(c, &req) {
		return nil
	}

	var checkIn, checkOut time.Time
	var err error
	if req.CheckIn != "" {
		checkIn, err = time.Parse(time.RFC3339, req.CheckIn)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid checkIn, expected RFC3339 timestamp",
			})
		}
	}
	if req.CheckOut != "" {
		checkOut, err = time.Parse(time.RFC3339, req.CheckOut)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid checkOut, expected RFC3339 timestamp",
			})
		}
	}

	res, err := h.service.Update(c.Context(), c.Params("id"), application.UpdateReservationInput{
		RoomID:        req.RoomID,
		PeriodCode:    req.PeriodCode,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Notes:         req.Notes,
		PriceOverride: req.TotalPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// RecordPayment stores how the stay was settled.
func (h *ReservationHandler) RecordPayment(c *fiber.Ctx) error {
	var req recordPaymentRequest
	if !parseBody(c, &req) {
		return nil
	}

	res, err := h.service.RecordPayment(c.Context(), c.Params("id"),
		domain.PaymentMethod(req.Method), domain.PaymentStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// CheckConflicts is the read-only availability probe.
func (h *ReservationHandler) CheckConflicts(c *fiber.Ctx) error {
	var req checkConflictsRequest
	if !parseBody(c, &req) {
		return nil
	}

	checkIn, err := time.Parse(time.RFC3339, req.CheckIn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid checkIn, expected RFC3339 timestamp",
		})
	}
	checkOut, err := time.Parse(time.RFC3339, req.CheckOut)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid checkOut, expected RFC3339 timestamp",
		})
	}

	report, err := h.service.CheckConflicts(c.Context(), req.RoomID, checkIn, checkOut, req.ExcludeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// List returns reservations filtered by query params.
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	filter := domain.ReservationFilter{
		Status:  domain.ReservationStatus(c.Query("status")),
		RoomID:  c.Query("roomId"),
		GuestID: c.Query("guestId"),
		Limit:   c.QueryInt("limit", 50),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid from, expected RFC3339 timestamp",
			})
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid to, expected RFC3339 timestamp",
			})
		}
		filter.To = t
	}

	reservations, err := h.service.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reservations": reservations})
}

// Get returns one reservation by id.
func (h *ReservationHandler) Get(c *fiber.Ctx) error {
	res, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// GetByNumber returns one reservation by business number.
func (h *ReservationHandler) GetByNumber(c *fiber.Ctx) error {
	res, err := h.service.GetByNumber(c.Context(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// ChangeStatus moves a reservation through its lifecycle.
func (h *ReservationHandler) ChangeStatus(c *fiber.Ctx) error {
	var req statusChangeRequest
	if !parseBody(c, &req) {
		return nil
	}

	res, err := h.service.ChangeStatus(c.Context(), c.Params("id"), domain.ReservationStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// CheckIn marks the guest as arrived.
func (h *ReservationHandler) CheckIn(c *fiber.Ctx) error {
	res, err := h.service.CheckIn(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// CheckOut settles and closes the stay.
func (h *ReservationHandler) CheckOut(c *fiber.Ctx) error {
	res, err := h.service.CheckOut(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Cancel aborts the reservation.
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	res, err := h.service.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
