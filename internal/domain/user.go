package domain

import "time"

// User is an account record. Superusers may enter the admin panel; inactive
// users cannot log in. Verified mirrors the email-verification flag exposed to
// Keycloak when accounts are mirrored there.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // argon2 encoded

	IsActive    bool
	IsSuperuser bool
	IsVerified  bool

	TOTPSecret    *string    // base32 TOTP secret (nullable)
	TOTPEnabledAt *time.Time // when TOTP verification was confirmed (nullable)

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TOTPActive reports whether the user has completed TOTP enrollment.
func (u User) TOTPActive() bool {
	return u.TOTPSecret != nil && u.TOTPEnabledAt != nil
}
