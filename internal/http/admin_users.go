package http

import (
	"errors"
	"net/http"

	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/pkg/httpx"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

type AdminUsersHandler struct {
	AdminService *service.AdminService
}

// HandleList godoc
//
//	@Summary		List Users Endpoint
//	@Description	List every account, newest first (superusers only)
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{array}		UserResponse
//	@Failure		401	{object}	httpx.DetailResponse	"no live session"
//	@Failure		403	{object}	httpx.DetailResponse	"not a superuser"
//	@Router			/admin/users [get].
func (h *AdminUsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.AdminService.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{
			ID:          u.ID,
			Email:       u.Email,
			Username:    u.Username,
			IsActive:    u.IsActive,
			IsSuperuser: u.IsSuperuser,
			IsVerified:  u.IsVerified,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete godoc
//
//	@Summary		Delete User Endpoint
//	@Description	Delete an account by id (superusers only)
//	@Tags			Admin
//	@Param			id	path	string	true	"user id"
//	@Success		204	"account deleted"
//	@Failure		401	{object}	httpx.DetailResponse	"no live session"
//	@Failure		403	{object}	httpx.DetailResponse	"not a superuser"
//	@Failure		404	{object}	httpx.DetailResponse	"no such account"
//	@Router			/admin/users/{id} [delete].
func (h *AdminUsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id := r.PathValue("id")
	if id == "" {
		httpx.WriteDetail(w, http.StatusUnprocessableEntity, "id is required")
		return
	}

	if err := h.AdminService.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteDetail(w, http.StatusNotFound, "USER_NOT_FOUND")
			return
		}
		log.Error("failed to delete user", "err", err, "user_id", id)
		httpx.WriteDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
