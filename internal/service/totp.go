package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/lanternlabs/gatehouse/internal/store"
)

// TOTPService handles time-based one-time password enrollment for accounts.
// Enrollment is two-phase: Enroll stores a pending secret, Verify confirms it
// with a valid code before login starts requiring one.
type TOTPService struct {
	Store  store.Store
	Issuer string // issuer label shown in authenticator apps
}

type TOTPEnrollment struct {
	Secret string
	URL    string // otpauth:// provisioning URL
}

func (s *TOTPService) Enroll(ctx context.Context, userID string) (TOTPEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TOTPEnrollment{}, ErrUserNotFound
		}
		return TOTPEnrollment{}, err
	}
	if user.TOTPActive() {
		return TOTPEnrollment{}, ErrTOTPAlreadyEnrolled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("generating totp key: %w", err)
	}

	if err := s.Store.Users().UpdateTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return TOTPEnrollment{}, fmt.Errorf("storing totp secret: %w", err)
	}

	return TOTPEnrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// Verify confirms a pending enrollment with a code from the authenticator.
func (s *TOTPService) Verify(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.TOTPSecret == nil {
		return ErrTOTPNotEnrolled
	}
	if user.TOTPActive() {
		return ErrTOTPAlreadyEnrolled
	}

	if !totp.Validate(code, *user.TOTPSecret) {
		return ErrTOTPInvalid
	}

	return s.Store.Users().EnableTOTP(ctx, userID)
}

// Disable removes TOTP from the account entirely.
func (s *TOTPService) Disable(ctx context.Context, userID string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.TOTPSecret == nil {
		return ErrTOTPNotEnrolled
	}

	return s.Store.Users().DisableTOTP(ctx, userID)
}
