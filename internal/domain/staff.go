package domain

import (
	"context"
	"time"
)

// StaffRole determines what an account may do. Permission checks live in the
// auth package; the role itself is just data.
type StaffRole string

const (
	RoleAdmin        StaffRole = "admin"
	RoleManager      StaffRole = "manager"
	RoleReception    StaffRole = "reception"
	RoleHousekeeping StaffRole = "housekeeping"
)

// ValidStaffRole reports whether r is one of the known roles.
func ValidStaffRole(r StaffRole) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleReception, RoleHousekeeping:
		return true
	}
	return false
}

// Staff is an employee account. PasswordHash never leaves the backend.
type Staff struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// StaffToken is a stored refresh token. Only the SHA-256 hash of the token
// is persisted; the raw value exists once, in the login response.
type StaffToken struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staffId"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
}

// StaffRepository persists staff accounts.
type StaffRepository interface {
	// Create stores a new staff account.
	Create(ctx context.Context, s *Staff) error
	// GetByID fetches one account or ErrStaffNotFound.
	GetByID(ctx context.Context, id string) (*Staff, error)
	// GetByEmail fetches one account by email or ErrStaffNotFound.
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	// List returns all accounts ordered by name.
	List(ctx context.Context) ([]Staff, error)
	// Update rewrites mutable fields.
	Update(ctx context.Context, s *Staff) error
	// Delete removes an account.
	Delete(ctx context.Context, id string) error
}

// TokenRepository persists refresh tokens.
type TokenRepository interface {
	// Store saves a new refresh token hash.
	Store(ctx context.Context, t *StaffToken) error
	// GetByHash fetches one token by its hash. Callers check revocation
	// and expiry themselves.
	GetByHash(ctx context.Context, hash string) (*StaffToken, error)
	// Revoke marks one token unusable.
	Revoke(ctx context.Context, id string) error
	// RevokeAllForStaff invalidates every token of one account.
	RevokeAllForStaff(ctx context.Context, staffID string) error
	// DeleteExpired removes tokens past their expiry. Returns rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
