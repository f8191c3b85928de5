package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	SecretKey         string        // Required: HMAC key for session tokens
	Algorithm         string        // Optional: session signing algorithm (HS256, HS384, HS512) (default: HS256)
	AccessTokenExpire time.Duration // Optional: session lifetime (default: 1h)

	DatabaseURL string // Required: PostgreSQL DSN
	RedisURL    string // Required: Redis URL for session revocation

	CSRFKey       string // Optional: 32-byte CSRF auth key; empty disables CSRF protection
	SecureCookies bool   // Optional: mark cookies Secure (default: false, set behind TLS)
	TOTPIssuer    string // Optional: issuer label in authenticator apps (default: Gatehouse)

	// Keycloak federation. All four must be set to enable it.
	KeycloakURL          string // Base URL, e.g. http://keycloak:8080
	KeycloakRealm        string
	KeycloakClientID     string
	KeycloakClientSecret string
	KeycloakRedirectURL  string // Optional: defaults from PUBLIC_URL

	PublicURL           string        // Optional: externally visible base URL (default: http://localhost:5000)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 5000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		SecretKey:         os.Getenv("SECRET_KEY"),
		Algorithm:         getEnvOrDefault("ALGORITHM", "HS256"),
		AccessTokenExpire: getEnvDurationOrDefault("ACCESS_TOKEN_EXPIRE", time.Hour),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		CSRFKey:       os.Getenv("CSRF_KEY"),
		SecureCookies: getEnvBoolOrDefault("SECURE_COOKIES", false),
		TOTPIssuer:    getEnvOrDefault("TOTP_ISSUER", "Gatehouse"),

		KeycloakURL:          os.Getenv("KEYCLOAK_URL"),
		KeycloakRealm:        os.Getenv("KEYCLOAK_REALM"),
		KeycloakClientID:     os.Getenv("KEYCLOAK_CLIENT_ID"),
		KeycloakClientSecret: os.Getenv("KEYCLOAK_CLIENT_SECRET"),
		KeycloakRedirectURL:  os.Getenv("KEYCLOAK_REDIRECT_URL"),

		PublicURL:           getEnvOrDefault("PUBLIC_URL", "http://localhost:5000"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 5000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.KeycloakRedirectURL == "" {
		cfg.KeycloakRedirectURL = cfg.PublicURL + "/auth/keycloak/callback"
	}

	return cfg
}

// Validate rejects configurations the app cannot start with.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		return errors.New("REDIS_URL is required")
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("ALGORITHM must be HS256, HS384 or HS512, got %q", c.Algorithm)
	}
	if c.AccessTokenExpire <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE must be positive")
	}
	return nil
}

// KeycloakEnabled reports whether the federation settings are complete.
func (c Config) KeycloakEnabled() bool {
	return c.KeycloakURL != "" &&
		c.KeycloakRealm != "" &&
		c.KeycloakClientID != "" &&
		c.KeycloakClientSecret != ""
}

// KeycloakIssuer is the realm's OIDC issuer URL.
func (c Config) KeycloakIssuer() string {
	return fmt.Sprintf("%s/realms/%s", c.KeycloakURL, c.KeycloakRealm)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
