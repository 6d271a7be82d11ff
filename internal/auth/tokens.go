package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	Name string           `json:"name"`
	Role domain.StaffRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the two token kinds: short-lived JWT
// access tokens and opaque refresh tokens stored hashed server-side.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      domain.Clock
}

// NewTokenManager builds a TokenManager. clock may be nil, defaulting to
// the system clock.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration, clock domain.Clock) *TokenManager {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      clock,
	}
}

// IssueAccessToken signs an HS256 access token for a staff account.
func (m *TokenManager) IssueAccessToken(staff *domain.Staff) (string, error) {
	now := m.clock.Now()
	claims := AccessClaims{
		Name: staff.Name,
		Role: staff.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature and expiry and returns the claims.
func (m *TokenManager) ParseAccessToken(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock.Now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewRefreshToken generates an opaque refresh token. The raw value goes to
// the client once; only the hash is stored.
func (m *TokenManager) NewRefreshToken() (raw, hash string, expiresAt time.Time, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("generating refresh token: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, HashToken(raw), m.clock.Now().Add(m.refreshTTL), nil
}

// HashToken maps a raw refresh token to its storage form.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
