package http

import (
	"net/http"
	"time"

	"github.com/lanternlabs/gatehouse/pkg/httpx"
)

// MeHandler godoc
//
//	@Summary		Current User Endpoint
//	@Description	Return the account behind the session cookie
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	httpx.DetailResponse	"no live session"
//	@Router			/auth/me [get].
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
			return
		}

		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			Username:    user.Username,
			IsActive:    user.IsActive,
			IsSuperuser: user.IsSuperuser,
			IsVerified:  user.IsVerified,
		})
	}
}

// ProtectedHandler godoc
//
//	@Summary		Protected Resource Endpoint
//	@Description	Succeeds only for active superusers; backs the admin route guard
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	ProtectedResponse
//	@Failure		401	{object}	httpx.DetailResponse	"no live session"
//	@Failure		403	{object}	httpx.DetailResponse	"not a superuser"
//	@Router			/auth/protected [get].
func ProtectedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, ProtectedResponse{
			Message:  "authenticated",
			Username: user.Username,
			Time:     time.Now().UTC(),
		})
	}
}
