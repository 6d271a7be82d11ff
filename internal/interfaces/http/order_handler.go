package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
)

type OrderHandler struct {
	service *application.OrderService
}

// NewOrderHandler builds the room-service order handler.
func NewOrderHandler(service *application.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type orderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	ReservationID string             `json:"reservationId" validate:"required"`
	Items         []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes         string             `json:"notes"`
}

// Create places an order against a checked-in stay.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req createOrderRequest
	if !parseBody(c, &req) {
		return nil
	}

	items := make([]application.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, application.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.service.Create(c.Context(), application.CreateOrderInput{
		ReservationID: req.ReservationID,
		Items:         items,
		Notes:         req.Notes,
		CreatedBy:     staffID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// ListOpen returns undelivered orders.
func (h *OrderHandler) ListOpen(c *fiber.Ctx) error {
	orders, err := h.service.ListOpen(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// ListByReservation returns a stay's orders.
func (h *OrderHandler) ListByReservation(c *fiber.Ctx) error {
	orders, err := h.service.ListByReservation(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// Get returns one order.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// Deliver marks an order as handed over.
func (h *OrderHandler) Deliver(c *fiber.Ctx) error {
	order, err := h.service.Deliver(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// Cancel voids an open order and restocks it.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.service.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}
