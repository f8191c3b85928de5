package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/pquerna/otp/totp"

	"github.com/lanternlabs/gatehouse/internal/domain"
	"github.com/lanternlabs/gatehouse/internal/store"
	"github.com/lanternlabs/gatehouse/pkg/cryptox"
	"github.com/lanternlabs/gatehouse/pkg/idx"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

const (
	usernameMaxLen = 20
	passwordMinLen = 8
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Mirror propagates account lifecycle events to an external identity provider.
// Implemented by the Keycloak admin client; nil disables mirroring.
type Mirror interface {
	CreateUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, u domain.User) error
}

type UserService struct {
	Store  store.Store
	Mirror Mirror // optional
}

type RegisterParams struct {
	Email    string
	Username string
	Password string
}

// Validate checks the registration fields. Returns a *ValidationError, which
// handlers render as a 422.
func (p RegisterParams) Validate() error {
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return &ValidationError{Field: "email", Message: "value is not a valid email address"}
	}
	if l := len(p.Username); l < 1 || l > usernameMaxLen {
		return &ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("length must be between 1 and %d characters", usernameMaxLen),
		}
	}
	if !usernamePattern.MatchString(p.Username) {
		return &ValidationError{
			Field:   "username",
			Message: "only letters, digits, dot, dash and underscore are allowed",
		}
	}
	if len(p.Password) < passwordMinLen {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("length must be at least %d characters", passwordMinLen),
		}
	}
	return nil
}

// Register creates a new account. Email and username collisions surface as
// ErrUserExists. When a Mirror is configured, the account is propagated to the
// identity provider best-effort: a mirror failure is logged, not returned,
// since the local record is the source of truth for this app.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	if err := p.Validate(); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(p.Email)),
		Username:     p.Username,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, fmt.Errorf("creating user: %w", err)
	}

	log := slogx.FromContext(ctx)
	log.Info("user registered", "user_id", user.ID, "username", user.Username)

	if s.Mirror != nil {
		if err := s.Mirror.CreateUser(ctx, user); err != nil {
			log.Warn("keycloak mirror failed", "user_id", user.ID, "err", err)
		}
	}

	return user, nil
}

type LoginParams struct {
	// Login is the "username" form field; it accepts either the email
	// address or the username.
	Login    string
	Password string
	TOTPCode string
}

// Authenticate verifies credentials and, when enrolled, the TOTP code.
// All account-state failures collapse into ErrBadCredentials.
func (s *UserService) Authenticate(ctx context.Context, p LoginParams) (domain.User, error) {
	user, err := s.lookup(ctx, p.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash comparison anyway to keep timing comparable.
			_ = cryptox.VerifyPassword(p.Password, dummyHash)
			return domain.User{}, ErrBadCredentials
		}
		return domain.User{}, fmt.Errorf("looking up user: %w", err)
	}

	if err := cryptox.VerifyPassword(p.Password, user.PasswordHash); err != nil {
		return domain.User{}, ErrBadCredentials
	}
	if !user.IsActive {
		return domain.User{}, ErrBadCredentials
	}

	if user.TOTPActive() {
		if p.TOTPCode == "" {
			return domain.User{}, ErrTOTPRequired
		}
		if !totp.Validate(p.TOTPCode, *user.TOTPSecret) {
			return domain.User{}, ErrTOTPInvalid
		}
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return user, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ChangePassword swaps in a new password hash after verifying the current
// password, so a stolen session cookie alone cannot take over the account.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
		return ErrBadCredentials
	}

	if len(next) < passwordMinLen {
		return &ValidationError{
			Field:   "new_password",
			Message: fmt.Sprintf("length must be at least %d characters", passwordMinLen),
		}
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", userID)
	return nil
}

// GetOrCreateFederated finds the local account matching an identity asserted
// by the OIDC provider, creating one on first login. Federated accounts get an
// unusable random password; they authenticate through the provider.
func (s *UserService) GetOrCreateFederated(ctx context.Context, email, username string) (domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return domain.User{}, ErrFederatedEmailMissing
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(cryptox.MustGenerateToken(cryptox.TokenSize256))
	if err != nil {
		return domain.User{}, err
	}

	user = domain.User{
		ID:           idx.New().String(),
		Email:        strings.ToLower(email),
		Username:     federatedUsername(username, email),
		PasswordHash: hash,
		IsActive:     true,
		IsVerified:   true, // the provider asserted the email
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Username collided with an existing account; retry with a suffix.
			user.Username = truncate(user.Username, usernameMaxLen-5) + "-" + cryptox.MustGenerateToken(3)
			if err := s.Store.Users().CreateUser(ctx, user); err != nil {
				return domain.User{}, err
			}
		} else {
			return domain.User{}, err
		}
	}

	slogx.FromContext(ctx).Info("federated user created", "user_id", user.ID)
	return user, nil
}

func (s *UserService) lookup(ctx context.Context, login string) (domain.User, error) {
	if strings.Contains(login, "@") {
		return s.Store.Users().GetUserByEmail(ctx, login)
	}
	return s.Store.Users().GetUserByUsername(ctx, login)
}

func federatedUsername(preferred, email string) string {
	name := strings.TrimSpace(preferred)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" {
		name = "user"
	}
	return truncate(name, usernameMaxLen)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// dummyHash is a valid argon2id hash of a random string, used to equalise
// timing for unknown accounts.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$t1Y1yUE0Ys9qz2hH1nK5dR0y5mI9fJ0cQb7bT7S3A2o"
