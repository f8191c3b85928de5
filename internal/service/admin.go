package service

import (
	"context"
	"errors"

	"github.com/lanternlabs/gatehouse/internal/domain"
	"github.com/lanternlabs/gatehouse/internal/store"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

// AdminService backs the admin panel. The panel is read-mostly: listing and
// deletion only, account creation always goes through registration.
type AdminService struct {
	Store  store.Store
	Mirror Mirror // optional
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// DeleteUser removes an account. The caller is responsible for having
// verified superuser rights; existing sessions die on the next request since
// the session middleware re-resolves the user.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	// Lookup and delete run in one transaction so the mirror is only told
	// about a row this call actually removed.
	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		return tx.Users().DeleteUser(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	log := slogx.FromContext(ctx)
	log.Info("user deleted by admin", "user_id", userID, "username", user.Username)

	if s.Mirror != nil {
		if err := s.Mirror.DeleteUser(ctx, user); err != nil {
			log.Warn("keycloak mirror delete failed", "user_id", userID, "err", err)
		}
	}

	return nil
}
