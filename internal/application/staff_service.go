package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/auth"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	Staff        *domain.Staff `json:"staff"`
}

// StaffService owns accounts and sessions.
type StaffService struct {
	staff   domain.StaffRepository
	tokens  domain.TokenRepository
	tm      *auth.TokenManager
	limiter *RateLimiter
	clock   domain.Clock
	timeout time.Duration
}

// NewStaffService wires the staff service. limiter may be nil to disable
// login throttling.
func NewStaffService(
	staff domain.StaffRepository,
	tokens domain.TokenRepository,
	tm *auth.TokenManager,
	limiter *RateLimiter,
	clock domain.Clock,
	timeout time.Duration,
) *StaffService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &StaffService{
		staff:   staff,
		tokens:  tokens,
		tm:      tm,
		limiter: limiter,
		clock:   clock,
		timeout: timeout,
	}
}

// ErrTooManyAttempts is returned when login throttling kicks in.
var ErrTooManyAttempts = errors.New("too many login attempts, try again later")

// Login checks credentials and opens a session. The same error comes back
// for a missing account and a wrong password.
func (s *StaffService) Login(ctx context.Context, emailAddr, password, clientIP string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if s.limiter != nil && !s.limiter.Allow(ctx, clientIP+":"+emailAddr) {
		return nil, ErrTooManyAttempts
	}

	account, err := s.staff.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrStaffNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !account.Active || !auth.CheckPassword(account.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, account)
}

// Refresh rotates a refresh token: the old one is revoked, a new pair comes
// back. A reused or expired token just fails.
func (s *StaffService) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.tokens.GetByHash(ctx, auth.HashToken(rawToken))
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	if stored.Revoked || s.clock.Now().After(stored.ExpiresAt) {
		return nil, auth.ErrInvalidToken
	}

	account, err := s.staff.GetByID(ctx, stored.StaffID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	if !account.Active {
		return nil, auth.ErrInvalidToken
	}

	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoking refresh token: %w", err)
	}
	return s.openSession(ctx, account)
}

// Logout revokes one refresh token. Unknown tokens are ignored.
func (s *StaffService) Logout(ctx context.Context, rawToken string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.tokens.GetByHash(ctx, auth.HashToken(rawToken))
	if err != nil {
		return nil
	}
	return s.tokens.Revoke(ctx, stored.ID)
}

func (s *StaffService) openSession(ctx context.Context, account *domain.Staff) (*TokenPair, error) {
	access, err := s.tm.IssueAccessToken(account)
	if err != nil {
		return nil, err
	}
	raw, hash, expiresAt, err := s.tm.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	stored := &domain.StaffToken{
		ID:        uuid.NewString(),
		StaffID:   account.ID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
		CreatedAt: s.clock.Now(),
	}
	if err := s.tokens.Store(ctx, stored); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: raw, Staff: account}, nil
}

// Create registers a staff account.
func (s *StaffService) Create(ctx context.Context, name, emailAddr, password string, role domain.StaffRole) (*domain.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	name = strings.TrimSpace(name)
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if name == "" || emailAddr == "" {
		return nil, domain.NewValidationError("name and email are required")
	}
	if len(password) < 8 {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}
	if !domain.ValidStaffRole(role) {
		return nil, domain.NewValidationError("unknown role %q", role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	now := s.clock.Now()
	account := &domain.Staff{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        emailAddr,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.staff.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("creating staff account: %w", err)
	}
	return account, nil
}

// List returns all accounts.
func (s *StaffService) List(ctx context.Context) ([]domain.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.staff.List(ctx)
}

// GetByID fetches one account.
func (s *StaffService) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.staff.GetByID(ctx, id)
}

// Update changes name, role or active flag. When newPassword is non-empty
// the password is replaced and every session of the account is revoked.
func (s *StaffService) Update(ctx context.Context, id, name string, role domain.StaffRole, active bool, newPassword string) (*domain.Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	account, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		account.Name = name
	}
	if role != "" {
		if !domain.ValidStaffRole(role) {
			return nil, domain.NewValidationError("unknown role %q", role)
		}
		account.Role = role
	}
	account.Active = active

	revokeSessions := false
	if newPassword != "" {
		if len(newPassword) < 8 {
			return nil, domain.NewValidationError("password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		account.PasswordHash = hash
		revokeSessions = true
	}
	account.UpdatedAt = s.clock.Now()

	if err := s.staff.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("updating staff account: %w", err)
	}
	if revokeSessions || !account.Active {
		if err := s.tokens.RevokeAllForStaff(ctx, account.ID); err != nil {
			log.Printf("revoking sessions for %s failed: %v", account.Email, err)
		}
	}
	return account, nil
}

// Delete removes an account and its sessions.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.tokens.RevokeAllForStaff(ctx, id); err != nil {
		log.Printf("revoking sessions before delete failed: %v", err)
	}
	return s.staff.Delete(ctx, id)
}

// EnsureAdmin seeds the first admin account at startup when configured and
// not already present.
func (s *StaffService) EnsureAdmin(ctx context.Context, name, emailAddr, password string) error {
	if emailAddr == "" || password == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.staff.GetByEmail(ctx, strings.ToLower(emailAddr))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrStaffNotFound) {
		return err
	}
	if _, err := s.Create(ctx, name, emailAddr, password, domain.RoleAdmin); err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}
	log.Printf("seeded admin account %s", emailAddr)
	return nil
}

// PurgeExpiredTokens removes dead refresh tokens. The scheduler calls it.
func (s *StaffService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.tokens.DeleteExpired(ctx, s.clock.Now())
}
