package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// ProductService manages the minibar/counter catalogue.
type ProductService struct {
	products domain.ProductRepository
	clock    domain.Clock
	timeout  time.Duration
}

// NewProductService wires the product service.
func NewProductService(products domain.ProductRepository, clock domain.Clock, timeout time.Duration) *ProductService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ProductService{products: products, clock: clock, timeout: timeout}
}

// Create registers a product.
func (s *ProductService) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.NewValidationError("product name is required")
	}
	if p.Price < 0 {
		return domain.NewValidationError("product price cannot be negative")
	}
	if p.Stock < 0 {
		return domain.NewValidationError("product stock cannot be negative")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.clock.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Active = true

	if err := s.products.Create(ctx, p); err != nil {
		return fmt.Errorf("creating product %s: %w", p.Name, err)
	}
	return nil
}

// GetByID fetches one product.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.products.GetByID(ctx, id)
}

// List returns the catalogue.
func (s *ProductService) List(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.products.List(ctx, activeOnly)
}

// Update rewrites a product.
func (s *ProductService) Update(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if p.Price < 0 {
		return domain.NewValidationError("product price cannot be negative")
	}
	p.UpdatedAt = s.clock.Now()
	if err := s.products.Update(ctx, p); err != nil {
		return fmt.Errorf("updating product %s: %w", p.Name, err)
	}
	return nil
}

// Restock adds delta units to a product's stock. Negative deltas allow
// manual corrections but cannot push stock below zero.
func (s *ProductService) Restock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if delta == 0 {
		return nil, domain.NewValidationError("restock delta cannot be zero")
	}
	if err := s.products.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, id)
}

// Delete removes a product from the catalogue.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.products.Delete(ctx, id)
}
