package domain

import (
	"context"
	"time"
)

// OrderStatus is the kitchen/runner state of a room-service order.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusOpen, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is one product line on an order. Name and unit price are
// snapshotted at ordering time.
type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"orderId"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Total returns the line total.
func (i OrderItem) Total() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order is a room-service order charged against a reservation.
type Order struct {
	ID            string      `json:"id"`
	ReservationID string      `json:"reservationId"`
	RoomNumber    string      `json:"roomNumber"`
	Status        OrderStatus `json:"status"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Notes         string      `json:"notes,omitempty"`
	CreatedBy     string      `json:"createdBy,omitempty"`
	DeliveredAt   *time.Time  `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OrderRepository persists orders together with their items.
type OrderRepository interface {
	// Create stores an order and its items in one transaction.
	Create(ctx context.Context, o *Order) error
	// GetByID fetches one order with items or ErrOrderNotFound.
	GetByID(ctx context.Context, id string) (*Order, error)
	// ListByReservation returns all orders for one reservation, oldest first.
	ListByReservation(ctx context.Context, reservationID string) ([]Order, error)
	// ListOpen returns undelivered orders, oldest first.
	ListOpen(ctx context.Context) ([]Order, error)
	// UpdateStatus moves an order to a new status and stamps delivery time.
	UpdateStatus(ctx context.Context, id string, status OrderStatus, deliveredAt *time.Time) error
	// SumExtras totals delivered order amounts for one reservation.
	SumExtras(ctx context.Context, reservationID string) (float64, error)
}
