package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type guestRepository struct {
	db *sql.DB
}

// NewGuestRepository builds the Postgres guest repository.
func NewGuestRepository(db *sql.DB) domain.GuestRepository {
	return &guestRepository{db: db}
}

const guestColumns = `id, name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(document, ''), COALESCE(notes, ''), blocked, created_at, updated_at`

func (r *guestRepository) Create(ctx context.Context, g *domain.Guest) error {
	query := `
		INSERT INTO guests (id, name, phone, email, document, notes, blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.Name, nullIfEmpty(g.Phone), nullIfEmpty(g.Email),
		nullIfEmpty(g.Document), nullIfEmpty(g.Notes), g.Blocked,
		g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting guest: %w", err)
	}
	return nil
}

func (r *guestRepository) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE id = $1`

	var g domain.Guest
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.Phone, &g.Email, &g.Document, &g.Notes,
		&g.Blocked, &g.CreatedAt, &g.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning guest: %w", err)
	}
	return &g, nil
}

func (r *guestRepository) Search(ctx context.Context, term string, limit int) ([]domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests`
	args := []interface{}{}
	if term != "" {
		query += ` WHERE name ILIKE $1 OR phone ILIKE $1 OR document ILIKE $1`
		args = append(args, "%"+term+"%")
	}
	query += fmt.Sprintf(` ORDER BY name LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching guests: %w", err)
	}
	defer rows.Close()

	var guests []domain.Guest
	for rows.Next() {
		var g domain.Guest
		err := rows.Scan(
			&g.ID, &g.Name, &g.Phone, &g.Email, &g.Document, &g.Notes,
			&g.Blocked, &g.CreatedAt, &g.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning guest row: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (r *guestRepository) Update(ctx context.Context, g *domain.Guest) error {
	query := `
		UPDATE guests
		SET name = $2, phone = $3, email = $4, document = $5, notes = $6, blocked = $7, updated_at = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		g.ID, g.Name, nullIfEmpty(g.Phone), nullIfEmpty(g.Email),
		nullIfEmpty(g.Document), nullIfEmpty(g.Notes), g.Blocked, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating guest: %w", err)
	}
	return requireAffected(result, domain.ErrGuestNotFound)
}

func (r *guestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting guest: %w", err)
	}
	return requireAffected(result, domain.ErrGuestNotFound)
}
