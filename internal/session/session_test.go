package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mapKV is an in-memory KV for tests. TTLs are honoured on read.
type mapKV struct {
	mu      sync.Mutex
	values  map[string]string
	expires map[string]time.Time
}

func newMapKV() *mapKV {
	return &mapKV{values: map[string]string{}, expires: map[string]time.Time{}}
}

func (m *mapKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.expires[key] = time.Now().Add(ttl)
	return nil
}

func (m *mapKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.values[key]
	if !ok || time.Now().After(m.expires[key]) {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (m *mapKV) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func newManager(kv KV, ttl time.Duration) *Manager {
	return &Manager{
		Secret:    []byte("test-secret-key"),
		Algorithm: "HS256",
		TTL:       ttl,
		KV:        kv,
	}
}

func TestIssueAndResolve(t *testing.T) {
	ctx := context.Background()
	m := newManager(newMapKV(), time.Hour)

	token, err := m.Issue(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestResolveRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	m := newManager(newMapKV(), time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := m.Resolve(ctx, tok)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestResolveRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()

	other := &Manager{Secret: []byte("other-secret"), TTL: time.Hour, KV: kv}
	token, err := other.Issue(ctx, "user-1")
	require.NoError(t, err)

	m := newManager(kv, time.Hour)
	_, err = m.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResolveRejectsExpired(t *testing.T) {
	ctx := context.Background()
	m := newManager(newMapKV(), -time.Minute) // already expired at issue time

	token, err := m.Issue(ctx, "user-1")
	require.NoError(t, err)

	_, err = m.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevokeStopsResolution(t *testing.T) {
	ctx := context.Background()
	m := newManager(newMapKV(), time.Hour)

	token, err := m.Issue(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token))

	_, err = m.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestUnsupportedAlgorithm(t *testing.T) {
	ctx := context.Background()
	m := &Manager{Secret: []byte("k"), Algorithm: "RS256", TTL: time.Hour, KV: newMapKV()}

	_, err := m.Issue(ctx, "user-1")
	require.Error(t, err)
}
