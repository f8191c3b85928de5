package service

import "errors"

var (
	// ErrUserExists maps to the REGISTER_USER_ALREADY_EXISTS detail code.
	ErrUserExists = errors.New("user already exists")

	// ErrBadCredentials covers unknown account, wrong password and inactive
	// account alike so login failures are indistinguishable to a caller.
	ErrBadCredentials = errors.New("bad credentials")

	// ErrTOTPRequired is returned when the account has TOTP enabled and no
	// code accompanied the login form.
	ErrTOTPRequired = errors.New("totp code required")

	// ErrTOTPInvalid is returned for a wrong or stale TOTP code.
	ErrTOTPInvalid = errors.New("totp code invalid")

	ErrTOTPNotEnrolled     = errors.New("totp not enrolled")
	ErrTOTPAlreadyEnrolled = errors.New("totp already enrolled")

	ErrUserNotFound = errors.New("user not found")

	// ErrFederatedEmailMissing rejects ID tokens that assert no email
	// address; local accounts are keyed by email.
	ErrFederatedEmailMissing = errors.New("federated identity has no email")
)

// ValidationError carries a field-level message for 422 responses.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
