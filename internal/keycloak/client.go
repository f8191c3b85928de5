// Package keycloak integrates the Keycloak identity server two ways: a thin
// admin REST client that mirrors local accounts into a realm, and an OIDC
// relying party for browser login through Keycloak.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/lanternlabs/gatehouse/internal/domain"
)

// CreateUserRequest is the admin API payload for user creation.
type CreateUserRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Enabled       bool   `json:"enabled"`
	EmailVerified bool   `json:"emailVerified"`
}

// User is a Keycloak realm user representation (subset).
type User struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	EmailVerified    bool   `json:"emailVerified"`
	Enabled          bool   `json:"enabled"`
	CreatedTimestamp int64  `json:"createdTimestamp"`
}

// Client talks to the Keycloak admin REST API using a service-account token
// obtained through the client_credentials grant.
type Client struct {
	baseURL string // e.g. http://keycloak:8080
	realm   string
	http    *http.Client
}

// NewClient builds an admin client. clientID/clientSecret must belong to a
// confidential client with the manage-users service-account role.
func NewClient(baseURL, realm, clientID, clientSecret string) *Client {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL: fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token",
			strings.TrimRight(baseURL, "/"), realm),
	}

	httpClient := cfg.Client(context.Background())
	httpClient.Timeout = 10 * time.Second

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		realm:   realm,
		http:    httpClient,
	}
}

// CreateUser mirrors a local account into the realm. Keycloak answers 409 for
// an existing username/email; that is treated as success since the mirror is
// idempotent by design.
func (c *Client) CreateUser(ctx context.Context, u domain.User) error {
	payload := CreateUserRequest{
		Username:      u.Username,
		Email:         u.Email,
		Enabled:       u.IsActive,
		EmailVerified: u.IsVerified,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users", c.baseURL, c.realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("keycloak create user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusConflict:
		return nil
	default:
		return fmt.Errorf("keycloak create user: unexpected status %d", resp.StatusCode)
	}
}

// DeleteUser removes the mirrored account, looked up by username. A user that
// was never mirrored is not an error.
func (c *Client) DeleteUser(ctx context.Context, u domain.User) error {
	found, err := c.findByUsername(ctx, u.Username)
	if err != nil {
		return err
	}
	if found == nil {
		return nil
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s", c.baseURL, c.realm, url.PathEscape(found.ID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("keycloak delete user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("keycloak delete user: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) findByUsername(ctx context.Context, username string) (*User, error) {
	endpoint := fmt.Sprintf("%s/admin/realms/%s/users?exact=true&username=%s",
		c.baseURL, c.realm, url.QueryEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keycloak find user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("keycloak find user: unexpected status %d", resp.StatusCode)
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}
