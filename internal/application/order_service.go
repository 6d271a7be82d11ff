package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/events"
)

// OrderItemInput is one requested product line.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput is a room-service order as the desk submits it.
type CreateOrderInput struct {
	ReservationID string
	Items         []OrderItemInput
	Notes         string
	CreatedBy     string
}

// OrderService manages room-service orders.
type OrderService struct {
	orders       domain.OrderRepository
	products     domain.ProductRepository
	reservations domain.ReservationRepository
	clock        domain.Clock
	publisher    *events.Publisher
	timeout      time.Duration
}

// NewOrderService wires the order service. publisher may be nil.
func NewOrderService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	reservations domain.ReservationRepository,
	clock domain.Clock,
	publisher *events.Publisher,
	timeout time.Duration,
) *OrderService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OrderService{
		orders:       orders,
		products:     products,
		reservations: reservations,
		clock:        clock,
		publisher:    publisher,
		timeout:      timeout,
	}
}

// Create places an order against a checked-in reservation. Product names
// and prices are snapshotted onto the lines; stock is decremented in the
// same transaction that stores the order.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("order needs at least one item")
	}

	res, err := s.reservations.GetByID(ctx, in.ReservationID)
	if err != nil {
		return nil, err
	}
	if res.Status != domain.ReservationStatusCheckedIn {
		return nil, domain.NewValidationError("reservation %s is %s, orders need a checked-in guest", res.Number, res.Status)
	}

	now := s.clock.Now()
	order := &domain.Order{
		ID:            uuid.NewString(),
		ReservationID: res.ID,
		RoomNumber:    res.RoomNumber,
		Status:        domain.OrderStatusOpen,
		Notes:         in.Notes,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domain.NewValidationError("item quantity must be positive")
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, domain.NewValidationError("product %s is not for sale", product.Name)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
		order.Total += product.Price * float64(item.Quantity)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("creating order for %s: %w", res.Number, err)
	}
	s.publishOrder(ctx, domain.EventOrderCreated, order)
	return order, nil
}

// GetByID fetches one order.
func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.GetByID(ctx, id)
}

// ListOpen returns undelivered orders.
func (s *OrderService) ListOpen(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.ListOpen(ctx)
}

// ListByReservation returns every order on a stay.
func (s *OrderService) ListByReservation(ctx context.Context, reservationID string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.ListByReservation(ctx, reservationID)
}

// Deliver marks an open order as handed to the guest.
func (s *OrderService) Deliver(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusOpen {
		return nil, domain.NewValidationError("order is %s, only open orders can be delivered", order.Status)
	}
	now := s.clock.Now()
	if err := s.orders.UpdateStatus(ctx, id, domain.OrderStatusDelivered, &now); err != nil {
		return nil, fmt.Errorf("delivering order: %w", err)
	}
	order.Status = domain.OrderStatusDelivered
	order.DeliveredAt = &now
	order.UpdatedAt = now
	s.publishOrder(ctx, domain.EventOrderStatusChanged, order)
	return order, nil
}

// Cancel voids an open order and restocks its items.
func (s *OrderService) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusOpen {
		return nil, domain.NewValidationError("order is %s, only open orders can be cancelled", order.Status)
	}
	if err := s.orders.UpdateStatus(ctx, id, domain.OrderStatusCancelled, nil); err != nil {
		return nil, fmt.Errorf("cancelling order: %w", err)
	}
	for _, item := range order.Items {
		if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("restocking %s after cancel: %w", item.Name, err)
		}
	}
	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = s.clock.Now()
	s.publishOrder(ctx, domain.EventOrderStatusChanged, order)
	return order, nil
}

// publishOrder sends an order event, logging instead of failing.
func (s *OrderService) publishOrder(ctx context.Context, event domain.LifecycleEvent, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	msg := events.LifecycleMessage{
		Event:         event,
		ReservationID: order.ReservationID,
		RoomNumber:    order.RoomNumber,
		OrderID:       order.ID,
		OrderStatus:   order.Status,
		OccurredAt:    s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		log.Printf("publishing %s for order %s failed: %v", event, order.ID, err)
	}
}
