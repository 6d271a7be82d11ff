package domain

import (
	"context"
	"time"
)

// Product is a sellable minibar or counter item.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductRepository persists products.
type ProductRepository interface {
	// Create stores a new product.
	Create(ctx context.Context, p *Product) error
	// GetByID fetches one product or ErrProductNotFound.
	GetByID(ctx context.Context, id string) (*Product, error)
	// List returns products ordered by name. When activeOnly is set,
	// inactive products are skipped.
	List(ctx context.Context, activeOnly bool) ([]Product, error)
	// Update rewrites mutable fields.
	Update(ctx context.Context, p *Product) error
	// AdjustStock changes stock by delta inside the store, failing with
	// ErrInsufficientStock if the result would go negative.
	AdjustStock(ctx context.Context, id string, delta int) error
	// Delete removes a product.
	Delete(ctx context.Context, id string) error
}
