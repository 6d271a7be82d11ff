package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type periodRepository struct {
	db *sql.DB
}

// NewPeriodRepository builds the Postgres period-type repository.
func NewPeriodRepository(db *sql.DB) domain.PeriodRepository {
	return &periodRepository{db: db}
}

const periodColumns = `id, code, name, duration_minutes, base_price, active, created_at, updated_at`

func (r *periodRepository) Create(ctx context.Context, p *domain.PeriodType) error {
	query := `
		INSERT INTO period_types (id, code, name, duration_minutes, base_price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Code, p.Name, p.Duration, p.BasePrice, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("period code %s already exists", p.Code)
		}
		return fmt.Errorf("inserting period type: %w", err)
	}
	return nil
}

func (r *periodRepository) GetByCode(ctx context.Context, code string) (*domain.PeriodType, error) {
	query := `SELECT ` + periodColumns + ` FROM period_types WHERE code = $1`

	var p domain.PeriodType
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&p.ID, &p.Code, &p.Name, &p.Duration, &p.BasePrice, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPeriodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning period type: %w", err)
	}
	return &p, nil
}

func (r *periodRepository) ListActive(ctx context.Context) ([]domain.PeriodType, error) {
	query := `SELECT ` + periodColumns + ` FROM period_types WHERE active = TRUE ORDER BY duration_minutes`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing period types: %w", err)
	}
	defer rows.Close()

	var periods []domain.PeriodType
	for rows.Next() {
		var p domain.PeriodType
		err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Duration, &p.BasePrice, &p.Active, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning period type row: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (r *periodRepository) Update(ctx context.Context, p *domain.PeriodType) error {
	query := `
		UPDATE period_types
		SET name = $2, duration_minutes = $3, base_price = $4, active = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Duration, p.BasePrice, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating period type: %w", err)
	}
	return requireAffected(result, domain.ErrPeriodNotFound)
}
