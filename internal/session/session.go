// Package session issues and verifies browser sessions. The cookie value is a
// signed HS256 JWT whose jti must also exist in the key-value backend (Redis
// in production), so logout genuinely revokes a token before its exp.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lanternlabs/gatehouse/pkg/idx"
)

// CookieName is the session cookie, shared with the browser scripts.
const CookieName = "access_token"

// keyPrefix namespaces session keys in the shared backend.
const keyPrefix = "access_token:"

var (
	ErrTokenInvalid = errors.New("session: token invalid")
	ErrTokenRevoked = errors.New("session: token revoked")
)

// ErrKeyNotFound is returned by KV implementations for missing keys.
var ErrKeyNotFound = errors.New("session: key not found")

// KV is the minimal key-value surface the manager needs. Implemented by the
// Redis client in production and by a map in tests.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

// Manager signs, resolves, and revokes session tokens.
type Manager struct {
	Secret    []byte
	Algorithm string        // HS256, HS384 or HS512
	TTL       time.Duration // cookie max-age and Redis key TTL
	KV        KV
}

func (m *Manager) method() (jwt.SigningMethod, error) {
	switch m.Algorithm {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("session: unsupported algorithm %q", m.Algorithm)
	}
}

// Issue creates a session for userID and returns the signed token.
func (m *Manager) Issue(ctx context.Context, userID string) (string, error) {
	method, err := m.method()
	if err != nil {
		return "", err
	}

	jti := idx.New().String()
	now := time.Now().UTC()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL)),
	}

	token, err := jwt.NewWithClaims(method, claims).SignedString(m.Secret)
	if err != nil {
		return "", err
	}

	if err := m.KV.Set(ctx, keyPrefix+jti, userID, m.TTL); err != nil {
		return "", fmt.Errorf("session: storing session: %w", err)
	}

	return token, nil
}

// Resolve verifies a token and returns the user id it belongs to.
// A token that parses but has been revoked returns ErrTokenRevoked.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	claims, err := m.parse(token)
	if err != nil {
		return "", err
	}

	stored, err := m.KV.Get(ctx, keyPrefix+claims.ID)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return "", ErrTokenRevoked
		}
		return "", err
	}
	if stored != claims.Subject {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}

// Revoke deletes the backend key so the token stops resolving immediately.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return err
	}
	return m.KV.Del(ctx, keyPrefix+claims.ID)
}

func (m *Manager) parse(token string) (*jwt.RegisteredClaims, error) {
	method, err := m.method()
	if err != nil {
		return nil, err
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return m.Secret, nil },
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
