package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLivez(t *testing.T) {
	client := newClient(t)

	resp := get(t, client, "/livez")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status  string `json:"status"`
		Uptime  string `json:"uptime"`
		Version string `json:"version"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	require.Equal(t, "ok", body.Status)
	require.NotEmpty(t, body.Uptime)
	require.Equal(t, "e2e", body.Version)
}

func TestReadyz(t *testing.T) {
	client := newClient(t)

	resp := get(t, client, "/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
			Sessions string `json:"sessions"`
		} `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_ = resp.Body.Close()
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "ok", body.Checks.Database)
	require.Equal(t, "ok", body.Checks.Sessions)
}

func TestPagesServeHTML(t *testing.T) {
	client := newClient(t)

	for _, path := range []string{"/login", "/register"} {
		resp := get(t, client, path)
		require.Equal(t, http.StatusOK, resp.StatusCode, "page %s", path)
		require.Contains(t, resp.Header.Get("Content-Type"), "text/html")

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Contains(t, string(body), "<!DOCTYPE html>")
	}
}

func TestHomeRequiresSession(t *testing.T) {
	anon := newClient(t)
	resp := get(t, anon, "/")
	drain(resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	client := newClient(t)
	registerUser(t, client, "home-page@example.com", "home-page", testPassword)
	login(t, client, "home-page", testPassword)

	resp = get(t, client, "/")
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "home-page")
}

func TestLoginPageRedirectsWhenSignedIn(t *testing.T) {
	client := newClient(t)
	registerUser(t, client, "page-redir@example.com", "page-redir", testPassword)
	login(t, client, "page-redir", testPassword)

	resp := get(t, client, "/login")
	drain(resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestStaticAssets(t *testing.T) {
	client := newClient(t)

	for _, path := range []string{
		"/static/styles.css",
		"/static/toasts.js",
		"/static/login.js",
		"/static/register.js",
		"/static/logout.js",
	} {
		resp := get(t, client, path)
		drain(resp)
		require.Equal(t, http.StatusOK, resp.StatusCode, "asset %s", path)
	}
}

func TestSwaggerServed(t *testing.T) {
	client := newClient(t)

	resp := get(t, client, "/swagger/index.html")
	drain(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
