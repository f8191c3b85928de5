package http

import "time"

// Machine-readable detail codes carried in error bodies. Browser code keys
// its toast messages off these.
const (
	DetailRegisterUserExists = "REGISTER_USER_ALREADY_EXISTS"
	DetailLoginBadCreds      = "LOGIN_BAD_CREDENTIALS"
	DetailLoginTOTPRequired  = "LOGIN_TOTP_REQUIRED"
	DetailLoginTOTPInvalid   = "LOGIN_TOTP_INVALID"

	DetailChangePasswordBadCreds = "CHANGE_PASSWORD_BAD_CREDENTIALS"

	DetailUnauthorized = "UNAUTHORIZED"
	DetailForbidden    = "FORBIDDEN"
)

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	IsVerified  bool   `json:"is_verified"`
}

// TOTPEnrollResponse carries the provisioning material for an authenticator
// app. The secret is only shown once, at enrollment.
type TOTPEnrollResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// HealthChecks reports per-dependency status in readiness probes.
type HealthChecks struct {
	Database string `json:"database"`
	Sessions string `json:"sessions"`
}

// HealthResponse is returned by the liveness and readiness endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// ProtectedResponse proves an authenticated (and authorized) call succeeded.
type ProtectedResponse struct {
	Message  string    `json:"message"`
	Username string    `json:"username"`
	Time     time.Time `json:"time"`
}
