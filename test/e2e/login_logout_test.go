package e2e_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginLogoutRoundTrip(t *testing.T) {
	client := newClient(t)
	registerUser(t, client, "flow@example.com", "flow", testPassword)
	login(t, client, "flow", testPassword)

	// The session works against a protected route
	resp := get(t, client, "/auth/me")
	drain(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Logout revokes the session and clears the cookie
	resp = postForm(t, client, "/auth/jwt/logout", url.Values{})
	drain(resp)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The revoked session no longer resolves
	resp = get(t, client, "/auth/me")
	drain(resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCredentialResponsesNotCached(t *testing.T) {
	client := newClient(t)
	registerUser(t, client, "nocache@example.com", "nocache", testPassword)

	resp := postForm(t, client, "/auth/jwt/login", url.Values{
		"username": {"nocache"},
		"password": {testPassword},
	})
	drain(resp)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	resp = get(t, client, "/auth/me")
	drain(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestLoginWithEmail(t *testing.T) {
	client := newClient(t)
	registerUser(t, client, "by-email@example.com", "by-email", testPassword)
	login(t, client, "by-email@example.com", testPassword)
}

func TestLoginBadCredentials(t *testing.T) {
	client := newClient(t)
	registerUser(t, client, "badcreds@example.com", "badcreds", testPassword)

	t.Run("wrong password", func(t *testing.T) {
		resp := postForm(t, client, "/auth/jwt/login", url.Values{
			"username": {"badcreds"},
			"password": {"wrong-password"},
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "LOGIN_BAD_CREDENTIALS", decodeDetail(t, resp))
	})

	t.Run("unknown account", func(t *testing.T) {
		resp := postForm(t, client, "/auth/jwt/login", url.Values{
			"username": {"nobody-here"},
			"password": {testPassword},
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "LOGIN_BAD_CREDENTIALS", decodeDetail(t, resp))
	})
}

func TestLoginMissingFields(t *testing.T) {
	client := newClient(t)

	resp := postForm(t, client, "/auth/jwt/login", url.Values{
		"username": {"someone"},
	})
	drain(resp)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogoutWithoutSession(t *testing.T) {
	client := newClient(t)

	resp := postForm(t, client, "/auth/jwt/logout", url.Values{})
	drain(resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutTwice(t *testing.T) {
	client := newClient(t)
	registerUser(t, client, "twice@example.com", "twice", testPassword)
	login(t, client, "twice", testPassword)

	resp := postForm(t, client, "/auth/jwt/logout", url.Values{})
	drain(resp)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The cookie was cleared, so the second logout has no session to revoke
	resp = postForm(t, client, "/auth/jwt/logout", url.Values{})
	drain(resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedStatusMatrix(t *testing.T) {
	// Unauthenticated
	anon := newClient(t)
	resp := get(t, anon, "/auth/protected")
	drain(resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Authenticated but not a superuser
	client := newClient(t)
	registerUser(t, client, "prot@example.com", "prot", testPassword)
	login(t, client, "prot", testPassword)

	resp = get(t, client, "/auth/protected")
	drain(resp)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Superuser
	admin := newClient(t)
	seedSuperuser(t, "prot-admin@example.com", "prot-admin", testPassword)
	login(t, admin, "prot-admin", testPassword)

	resp = get(t, admin, "/auth/protected")
	drain(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTamperedCookieRejected(t *testing.T) {
	client := newClient(t)
	registerUser(t, client, "tamper@example.com", "tamper", testPassword)
	login(t, client, "tamper", testPassword)

	req, err := http.NewRequest(http.MethodGet, env.baseURL+"/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "not-a-real-token"})

	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	drain(resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
