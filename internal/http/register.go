// Package http wires the browser-facing and JSON routes: registration, the
// cookie session login flow, TOTP management, Keycloak federation, admin user
// listing and the embedded pages.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/pkg/httpx"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

type RegisterHandler struct {
	UserService *service.UserService
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Create a new account from an email, username and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"email, username, password"
//	@Success		201		{object}	UserResponse	"created account"
//	@Failure		400		{object}	httpx.DetailResponse	"REGISTER_USER_ALREADY_EXISTS"
//	@Failure		422		{object}	httpx.DetailResponse	"field validation message"
//	@Router			/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "body: invalid JSON")
		return
	}

	user, err := h.UserService.Register(ctx, service.RegisterParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.WriteDetail(w, http.StatusUnprocessableEntity, verr.Error())
		case errors.Is(err, service.ErrUserExists):
			httpx.WriteDetail(w, http.StatusBadRequest, DetailRegisterUserExists)
		default:
			log.Error("failed to register user", "err", err)
			httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
		IsVerified:  user.IsVerified,
	})
}
