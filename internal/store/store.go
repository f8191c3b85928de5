package store

import (
	"context"
	"errors"

	"github.com/lanternlabs/gatehouse/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store scope.
type Tx interface {
	Users() Users
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login, where the "username" form field
	// may carry the email address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername resolves the display login name.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists on email or username collision.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users ordered by creation date (newest first).
	// Backing query for the admin panel.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser removes a user record.
	DeleteUser(ctx context.Context, userID string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateTOTPSecret stores a pending TOTP secret for a user.
	UpdateTOTPSecret(ctx context.Context, userID string, secret string) error

	// EnableTOTP marks TOTP as confirmed (sets totp_enabled_at).
	EnableTOTP(ctx context.Context, userID string) error

	// DisableTOTP clears totp_secret and totp_enabled_at.
	DisableTOTP(ctx context.Context, userID string) error
}
