package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/pkg/httpx"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

type TOTPHandler struct {
	TOTPService *service.TOTPService
}

// HandleEnroll godoc
//
//	@Summary		TOTP Enroll Endpoint
//	@Description	Generate an authenticator secret for the current account
//	@Description	The authenticator stays pending until a code is verified
//	@Tags			TOTP
//	@Produce		json
//	@Success		200	{object}	TOTPEnrollResponse	"secret, otpauth_url"
//	@Failure		400	{object}	httpx.DetailResponse	"already enrolled"
//	@Failure		401	{object}	httpx.DetailResponse	"no live session"
//	@Router			/auth/totp/enroll [post].
func (h *TOTPHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := UserFromContext(ctx)
	if !ok {
		httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
		return
	}

	enrollment, err := h.TOTPService.Enroll(ctx, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrTOTPAlreadyEnrolled) {
			httpx.WriteDetail(w, http.StatusBadRequest, "TOTP_ALREADY_ENROLLED")
			return
		}
		log.Error("failed to enroll totp", "err", err, "user_id", user.ID)
		httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	// The enrollment secret must never land in a shared cache.
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TOTPEnrollResponse{
		Secret:     enrollment.Secret,
		OTPAuthURL: enrollment.URL,
	})
}

// HandleVerify godoc
//
//	@Summary		TOTP Verify Endpoint
//	@Description	Confirm a pending authenticator with a valid code, enabling it for login
//	@Tags			TOTP
//	@Accept			json
//	@Success		204	"authenticator enabled"
//	@Failure		400	{object}	httpx.DetailResponse	"code invalid or nothing pending"
//	@Failure		401	{object}	httpx.DetailResponse	"no live session"
//	@Router			/auth/totp/verify [post].
func (h *TOTPHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := UserFromContext(ctx)
	if !ok {
		httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "code is required")
		return
	}

	if err := h.TOTPService.Verify(ctx, user.ID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrTOTPNotEnrolled):
			httpx.WriteDetail(w, http.StatusBadRequest, "TOTP_NOT_ENROLLED")
		case errors.Is(err, service.ErrTOTPInvalid):
			httpx.WriteDetail(w, http.StatusBadRequest, DetailLoginTOTPInvalid)
		default:
			log.Error("failed to verify totp", "err", err, "user_id", user.ID)
			httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRemove godoc
//
//	@Summary		TOTP Remove Endpoint
//	@Description	Disable the authenticator for the current account
//	@Tags			TOTP
//	@Success		204	"authenticator removed"
//	@Failure		400	{object}	httpx.DetailResponse	"nothing enrolled"
//	@Failure		401	{object}	httpx.DetailResponse	"no live session"
//	@Router			/auth/totp [delete].
func (h *TOTPHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := UserFromContext(ctx)
	if !ok {
		httpx.WriteDetail(w, http.StatusUnauthorized, DetailUnauthorized)
		return
	}

	if err := h.TOTPService.Disable(ctx, user.ID); err != nil {
		if errors.Is(err, service.ErrTOTPNotEnrolled) {
			httpx.WriteDetail(w, http.StatusBadRequest, "TOTP_NOT_ENROLLED")
			return
		}
		log.Error("failed to disable totp", "err", err, "user_id", user.ID)
		httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
