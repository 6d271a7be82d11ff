package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository builds the Postgres product repository.
func NewProductRepository(db *sql.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, COALESCE(category, ''), price, stock, COALESCE(image_url, ''), active, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category, price, stock, image_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, nullIfEmpty(p.Category), p.Price, p.Stock,
		nullIfEmpty(p.ImageURL), p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock,
		&p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock,
			&p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, price = $4, image_url = $5, active = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, nullIfEmpty(p.Category), p.Price,
		nullIfEmpty(p.ImageURL), p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return requireAffected(result, domain.ErrProductNotFound)
}

// AdjustStock applies the delta atomically; the WHERE guard keeps stock
// from going negative under concurrent orders.
func (r *productRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("adjusting stock: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking product existence: %w", err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}
	return domain.ErrInsufficientStock
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return requireAffected(result, domain.ErrProductNotFound)
}
