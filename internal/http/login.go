package http

import (
	"errors"
	"net/http"

	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/internal/session"
	"github.com/lanternlabs/gatehouse/pkg/httpx"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

type LoginHandler struct {
	UserService  *service.UserService
	Sessions     *session.Manager
	SecureCookie bool
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticate with username (or email) and password and receive a session cookie
//	@Description	Accounts with an authenticator enrolled must also supply a totp form field
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Param			username	formData	string	true	"email or username"
//	@Param			password	formData	string	true	"password"
//	@Param			totp_code	formData	string	false	"authenticator code"
//	@Success		204			"session cookie set"
//	@Failure		400			{object}	httpx.DetailResponse	"LOGIN_BAD_CREDENTIALS, LOGIN_TOTP_REQUIRED or LOGIN_TOTP_INVALID"
//	@Failure		422			{object}	httpx.DetailResponse	"missing form fields"
//	@Router			/auth/jwt/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "body: invalid form data")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	user, err := h.UserService.Authenticate(ctx, service.LoginParams{
		Login:    username,
		Password: password,
		TOTPCode: r.PostFormValue("totp_code"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTOTPRequired):
			httpx.WriteDetail(w, http.StatusBadRequest, DetailLoginTOTPRequired)
		case errors.Is(err, service.ErrTOTPInvalid):
			httpx.WriteDetail(w, http.StatusBadRequest, DetailLoginTOTPInvalid)
		case errors.Is(err, service.ErrBadCredentials):
			httpx.WriteDetail(w, http.StatusBadRequest, DetailLoginBadCreds)
		default:
			log.Error("failed to authenticate user", "err", err)
			httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	token, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue session", "err", err, "user_id", user.ID)
		httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.NoCache(w)
	http.SetCookie(w, sessionCookie(token, int(h.Sessions.TTL.Seconds()), h.SecureCookie))
	w.WriteHeader(http.StatusNoContent)
}

// sessionCookie builds the auth cookie. maxAge of zero or below clears it.
func sessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
