package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lanternlabs/gatehouse/internal/domain"
	"github.com/lanternlabs/gatehouse/internal/store"
)

// fakeStore is an in-memory store.Store for service tests, enforcing the same
// uniqueness rules as the real schema.
type fakeStore struct {
	mu      sync.Mutex
	users   map[string]domain.User // keyed by id
	txCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]domain.User{}}
}

func (f *fakeStore) Users() store.Users       { return f }
func (f *fakeStore) ApplyMigrations() error   { return nil }
func (f *fakeStore) Close() error             { return nil }
func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	f.mu.Lock()
	f.txCalls++
	f.mu.Unlock()
	return fn(f)
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
			return store.ErrAlreadyExists
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userID)
	return nil
}

func (f *fakeStore) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	return f.update(userID, func(u *domain.User) { u.PasswordHash = newHash })
}

func (f *fakeStore) UpdateTOTPSecret(_ context.Context, userID, secret string) error {
	return f.update(userID, func(u *domain.User) {
		u.TOTPSecret = &secret
		u.TOTPEnabledAt = nil
	})
}

func (f *fakeStore) EnableTOTP(_ context.Context, userID string) error {
	now := time.Now().UTC()
	return f.update(userID, func(u *domain.User) { u.TOTPEnabledAt = &now })
}

func (f *fakeStore) DisableTOTP(_ context.Context, userID string) error {
	return f.update(userID, func(u *domain.User) {
		u.TOTPSecret = nil
		u.TOTPEnabledAt = nil
	})
}

func (f *fakeStore) update(userID string, fn func(*domain.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	f.users[userID] = u
	return nil
}
