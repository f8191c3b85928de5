package e2e_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lanternlabs/gatehouse/internal/domain"
	"github.com/lanternlabs/gatehouse/pkg/cryptox"
	"github.com/lanternlabs/gatehouse/pkg/idx"
)

// seedSuperuser inserts a superuser straight into the store; there is no
// public endpoint that grants the flag.
func seedSuperuser(t *testing.T, email, username, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, env.store.Users().CreateUser(context.Background(), user))
	return user
}

func TestAdminListUsers(t *testing.T) {
	admin := newClient(t)
	seedSuperuser(t, "admin-list@example.com", "admin-list", testPassword)
	login(t, admin, "admin-list", testPassword)

	resp := get(t, admin, "/admin/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	_ = resp.Body.Close()
	require.NotEmpty(t, users)
}

func TestAdminRequiresSuperuser(t *testing.T) {
	client := newClient(t)
	registerUser(t, client, "plain-user@example.com", "plain-user", testPassword)
	login(t, client, "plain-user", testPassword)

	resp := get(t, client, "/admin/users")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", decodeDetail(t, resp))
}

func TestAdminRequiresSession(t *testing.T) {
	client := newClient(t)

	resp := get(t, client, "/admin/users")
	drain(resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminDeleteUser(t *testing.T) {
	admin := newClient(t)
	seedSuperuser(t, "admin-del@example.com", "admin-del", testPassword)
	login(t, admin, "admin-del", testPassword)

	victim := newClient(t)
	registerUser(t, victim, "victim@example.com", "victim", testPassword)

	// Find the victim's id through the listing
	resp := get(t, admin, "/admin/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	_ = resp.Body.Close()

	var victimID string
	for _, u := range users {
		if u.Username == "victim" {
			victimID = u.ID
		}
	}
	require.NotEmpty(t, victimID)

	resp = del(t, admin, "/admin/users/"+victimID)
	drain(resp)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The deleted account can no longer sign in
	loginResp := postForm(t, victim, "/auth/jwt/login", url.Values{
		"username": {"victim"},
		"password": {testPassword},
	})
	require.Equal(t, http.StatusBadRequest, loginResp.StatusCode)
	require.Equal(t, "LOGIN_BAD_CREDENTIALS", decodeDetail(t, loginResp))
}

func TestAdminDeleteUnknownUser(t *testing.T) {
	admin := newClient(t)
	seedSuperuser(t, "admin-404@example.com", "admin-404", testPassword)
	login(t, admin, "admin-404", testPassword)

	resp := del(t, admin, "/admin/users/"+idx.New().String())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "USER_NOT_FOUND", decodeDetail(t, resp))
}
