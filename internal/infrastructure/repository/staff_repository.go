package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository builds the Postgres staff repository.
func NewStaffRepository(db *sql.DB) domain.StaffRepository {
	return &staffRepository{db: db}
}

const staffColumns = `id, name, email, password_hash, role, active, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, s *domain.Staff) error {
	query := `
		INSERT INTO staff (id, name, email, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Email, s.PasswordHash, s.Role, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("email %s is already registered", s.Email)
		}
		return fmt.Errorf("inserting staff account: %w", err)
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *staffRepository) List(ctx context.Context) ([]domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Staff
	for rows.Next() {
		var s domain.Staff
		err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role, &s.Active, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning staff row: %w", err)
		}
		accounts = append(accounts, s)
	}
	return accounts, rows.Err()
}

func (r *staffRepository) Update(ctx context.Context, s *domain.Staff) error {
	query := `
		UPDATE staff
		SET name = $2, password_hash = $3, role = $4, active = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.PasswordHash, s.Role, s.Active, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating staff account: %w", err)
	}
	return requireAffected(result, domain.ErrStaffNotFound)
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting staff account: %w", err)
	}
	return requireAffected(result, domain.ErrStaffNotFound)
}

func (r *staffRepository) scanOne(row *sql.Row) (*domain.Staff, error) {
	var s domain.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning staff account: %w", err)
	}
	return &s, nil
}
