package domain

import (
	"context"
	"time"
)

// RoomStatus is the operational state of a room as the front desk and
// housekeeping see it.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusCleaning    RoomStatus = "cleaning"
	RoomStatusMaintenance RoomStatus = "maintenance"
	RoomStatusBlocked     RoomStatus = "blocked"
)

// ValidRoomStatus reports whether s is one of the known statuses.
func ValidRoomStatus(s RoomStatus) bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusCleaning, RoomStatusMaintenance, RoomStatusBlocked:
		return true
	}
	return false
}

// BookableNow reports whether a walk-in or new booking may be assigned to a
// room in this status. Cleaning rooms count: housekeeping turns them over
// before the guest arrives.
func (s RoomStatus) BookableNow() bool {
	return s == RoomStatusAvailable || s == RoomStatusCleaning
}

// Room is a physical unit of the property. Rates maps period codes to this
// room's price for that period; codes missing from the map sell at the
// period's base price.
type Room struct {
	ID        string             `json:"id"`
	Number    string             `json:"number"`
	Category  string             `json:"category"`
	Status    RoomStatus         `json:"status"`
	Floor     int                `json:"floor"`
	Capacity  int                `json:"capacity"`
	Rates     map[string]float64 `json:"rates,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// RateFor returns the room's price for a period code, falling back to the
// given base price when the room carries no override.
func (r *Room) RateFor(code string, basePrice float64) float64 {
	if price, ok := r.Rates[code]; ok && price > 0 {
		return price
	}
	return basePrice
}

// RoomOption is a substitute room offered when the requested one is taken.
// CategoryMatch tells the desk whether the guest keeps the same category.
type RoomOption struct {
	RoomID        string     `json:"roomId"`
	Number        string     `json:"number"`
	Category      string     `json:"category"`
	Status        RoomStatus `json:"status"`
	CategoryMatch bool       `json:"categoryMatch"`
}

// RoomRepository persists rooms.
type RoomRepository interface {
	// Create stores a new room and fills in generated fields.
	Create(ctx context.Context, room *Room) error
	// GetByID fetches one room or ErrRoomNotFound.
	GetByID(ctx context.Context, id string) (*Room, error)
	// GetByNumber fetches one room by its display number or ErrRoomNotFound.
	GetByNumber(ctx context.Context, number string) (*Room, error)
	// List returns all rooms ordered by number, optionally filtered by status.
	List(ctx context.Context, status RoomStatus) ([]Room, error)
	// ListBookable returns rooms whose status admits a new booking,
	// ordered by ascending number.
	ListBookable(ctx context.Context) ([]Room, error)
	// Update rewrites mutable room fields.
	Update(ctx context.Context, room *Room) error
	// UpdateStatus changes only the operational status.
	UpdateStatus(ctx context.Context, id string, status RoomStatus) error
	// Delete removes a room. Implementations return ErrRoomInUse when
	// active reservations still reference it.
	Delete(ctx context.Context, id string) error
}
