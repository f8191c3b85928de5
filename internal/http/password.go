package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/pkg/httpx"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

type PasswordHandler struct {
	UserService *service.UserService
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ServeHTTP godoc
//
//	@Summary		Change Password Endpoint
//	@Description	Rotate the signed-in account's password; the current password must be supplied again
//	@Tags			Auth
//	@Accept			json
//	@Security		CookieAuth
//	@Param			request	body	changePasswordRequest	true	"current and new password"
//	@Success		204		"password changed"
//	@Failure		400		{object}	httpx.DetailResponse	"CHANGE_PASSWORD_BAD_CREDENTIALS"
//	@Failure		401		{object}	httpx.DetailResponse	"no live session"
//	@Failure		422		{object}	httpx.DetailResponse	"field validation message"
//	@Router			/auth/password [post].
func (h *PasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := UserFromContext(ctx)
	if !ok {
		httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "body: invalid JSON")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "current_password and new_password are required")
		return
	}

	if err := h.UserService.ChangePassword(ctx, user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.WriteDetail(w, http.StatusUnprocessableEntity, verr.Error())
		case errors.Is(err, service.ErrBadCredentials):
			httpx.WriteDetail(w, http.StatusBadRequest, DetailChangePasswordBadCreds)
		default:
			log.Error("failed to change password", "err", err, "user_id", user.ID)
			httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
