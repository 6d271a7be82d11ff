// Package events publishes lifecycle messages to RabbitMQ and consumes them
// in the housekeeping worker. The queue decouples slow side-effects
// (housekeeping boards, future integrations) from the booking path; when
// AMQP is not configured the publisher is nil and services skip it.
package events

import (
	"time"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// LifecycleMessage is the wire form of one lifecycle event. Reservation,
// room and order events share the envelope; fields that do not apply to an
// event stay empty.
type LifecycleMessage struct {
	Event         domain.LifecycleEvent    `json:"event"`
	ReservationID string                   `json:"reservationId,omitempty"`
	Number        string                   `json:"number,omitempty"`
	RoomID        string                   `json:"roomId,omitempty"`
	RoomNumber    string                   `json:"roomNumber"`
	Status        domain.ReservationStatus `json:"status,omitempty"`
	RoomStatus    domain.RoomStatus        `json:"roomStatus,omitempty"`
	OrderID       string                   `json:"orderId,omitempty"`
	OrderStatus   domain.OrderStatus       `json:"orderStatus,omitempty"`
	OccurredAt    time.Time                `json:"occurredAt"`
}
