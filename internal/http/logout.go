package http

import (
	"net/http"

	"github.com/lanternlabs/gatehouse/internal/session"
	"github.com/lanternlabs/gatehouse/pkg/httpx"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

type LogoutHandler struct {
	Sessions     *session.Manager
	SecureCookie bool
}

// ServeHTTP godoc
//
//	@Summary		Logout Endpoint
//	@Description	Revoke the current session and clear the auth cookie
//	@Tags			Auth
//	@Success		204	"session revoked, cookie cleared"
//	@Failure		401	{object}	httpx.DetailResponse	"no live session"
//	@Router			/auth/jwt/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
		return
	}

	// A token that no longer resolves is the same as no token at all.
	if _, err := h.Sessions.Resolve(ctx, cookie.Value); err != nil {
		httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
		return
	}

	if err := h.Sessions.Revoke(ctx, cookie.Value); err != nil {
		log.Error("failed to revoke session", "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, sessionCookie("", -1, h.SecureCookie))
	w.WriteHeader(http.StatusNoContent)
}
