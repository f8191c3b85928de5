package keycloak

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

var (
	// ErrNonceMismatch means the ID token's nonce did not match the one sent
	// with the authorization request.
	ErrNonceMismatch = errors.New("keycloak: nonce mismatch")
	// ErrNoIDToken means the code exchange succeeded but the token response
	// carried no id_token field.
	ErrNoIDToken = errors.New("keycloak: token response missing id_token")
)

// Identity is what an OIDC callback yields after verification.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Username      string
}

// OIDC is a relying-party helper for browser login through a Keycloak realm.
type OIDC struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	config   oauth2.Config
}

// NewOIDC discovers the realm's endpoints. issuer looks like
// http://localhost:8080/realms/<realm>.
func NewOIDC(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*OIDC, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &OIDC{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// AuthCodeURL builds the authorization redirect carrying state, nonce and a
// PKCE challenge derived from verifier.
func (o *OIDC) AuthCodeURL(state, nonce, pkceVerifier string) string {
	return o.config.AuthCodeURL(state,
		oidc.Nonce(nonce),
		oauth2.S256ChallengeOption(pkceVerifier),
	)
}

// Exchange redeems the authorization code, verifies the ID token against the
// realm's keys and checks the nonce round-trip.
func (o *OIDC) Exchange(ctx context.Context, code, nonce, pkceVerifier string) (*Identity, error) {
	token, err := o.config.Exchange(ctx, code, oauth2.VerifierOption(pkceVerifier))
	if err != nil {
		return nil, fmt.Errorf("oidc exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := o.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("oidc verify: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, ErrNonceMismatch
	}

	var claims struct {
		Email             string `json:"email"`
		EmailVerified     bool   `json:"email_verified"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("oidc claims: %w", err)
	}

	return &Identity{
		Subject:       idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Username:      claims.PreferredUsername,
	}, nil
}
