package http

import (
	"context"
	"net/http"

	"github.com/lanternlabs/gatehouse/internal/domain"
	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/internal/session"
	"github.com/lanternlabs/gatehouse/pkg/httpx"
)

type contextKey string

const userContextKey contextKey = "gatehouse.user"

// UserFromContext returns the authenticated user placed by AuthnMiddleware.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userContextKey).(domain.User)
	return u, ok
}

// AuthnMiddleware resolves the session cookie to a user and rejects requests
// without a live session. Revoked or expired tokens read as 401, same as a
// missing cookie, so clients cannot distinguish the cases.
func AuthnMiddleware(sessions *session.Manager, users *service.UserService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := resolveUser(r, sessions, users)
			if !ok {
				httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperuser gates a route behind the is_superuser flag. Must run after
// AuthnMiddleware.
func RequireSuperuser() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
				return
			}
			if !user.IsSuperuser {
				httpx.WriteDetail(w, http.StatusForbidden, DetailForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveUser is the shared cookie-to-user path. Pages use it directly since
// they render for anonymous visitors too.
func resolveUser(r *http.Request, sessions *session.Manager, users *service.UserService) (domain.User, bool) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return domain.User{}, false
	}

	userID, err := sessions.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return domain.User{}, false
	}

	user, err := users.GetUserByID(r.Context(), userID)
	if err != nil || !user.IsActive {
		return domain.User{}, false
	}
	return user, true
}
