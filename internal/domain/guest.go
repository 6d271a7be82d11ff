package domain

import (
	"context"
	"time"
)

// Guest is a registry entry for a returning customer. Reservations snapshot
// the fields they need, so editing a guest never rewrites booking history.
type Guest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Document  string    `json:"document,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GuestRepository persists guests.
type GuestRepository interface {
	// Create stores a new guest.
	Create(ctx context.Context, g *Guest) error
	// GetByID fetches one guest or ErrGuestNotFound.
	GetByID(ctx context.Context, id string) (*Guest, error)
	// Search returns guests whose name, phone or document matches the term,
	// ordered by name. An empty term lists everyone up to limit.
	Search(ctx context.Context, term string, limit int) ([]Guest, error)
	// Update rewrites mutable fields.
	Update(ctx context.Context, g *Guest) error
	// Delete removes a guest from the registry.
	Delete(ctx context.Context, id string) error
}
