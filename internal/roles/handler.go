package roles

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/almajalla/majalla/internal/auth"
	"github.com/almajalla/majalla/internal/transport"
	"github.com/almajalla/majalla/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Grant(ctx context.Context, actor auth.Identity, targetEmail string, role auth.Role) error
	Revoke(ctx context.Context, actor auth.Identity, targetUserID int64, role auth.Role) error
	RolesForUser(ctx context.Context, userID int64) ([]auth.Role, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

type GrantRoleDTO struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// GrantRole handles POST /admin/roles
func (h *Handler) GrantRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto GrantRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, ok := auth.ParseRole(dto.Role)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if dto.Email == "" {
		h.WriteError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.Service.Grant(r.Context(), actor, dto.Email, role); err != nil {
		h.Logger.Warn("role grant failed", "actor_id", actor.ID, "email", dto.Email, "role", role, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "granted"})
}

// RevokeRole handles DELETE /admin/users/{userID}/roles/{role}
func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	role, ok := auth.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if err := h.Service.Revoke(r.Context(), actor, targetID, role); err != nil {
		h.Logger.Warn("role revoke failed", "actor_id", actor.ID, "target_user_id", targetID, "role", role, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// UserRoles handles GET /admin/users/{userID}/roles
func (h *Handler) UserRoles(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	held, err := h.Service.RolesForUser(r.Context(), targetID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"user_id": targetID, "roles": held})
}
