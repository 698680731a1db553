package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization gates admin routes on the Engine. Role checks hit the
// role store on every request rather than trusting anything cached in the
// session token.
type RBACAuthorization struct {
	engine *Engine
	logger *slog.Logger
}

func NewRBACAuthorization(engine *Engine, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		engine: engine,
		logger: logger,
	}
}

func (ra *RBACAuthorization) Engine() *Engine {
	return ra.engine
}

// RequireRoles admits the owner or any identity holding one of the roles.
func (ra *RBACAuthorization) RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				ra.logger.Warn("authorization check failed: identity not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed, err := ra.engine.CanAccessAdminSection(r.Context(), identity, roles...)
			if err != nil {
				ra.logger.ErrorContext(r.Context(), "authorization check failed",
					"error", err,
					"user_id", identity.ID,
					"required_roles", roles)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient roles",
					"user_id", identity.ID,
					"required_roles", roles)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner admits only the configured owner identity. Used for the
// deletion review console.
func (ra *RBACAuthorization) RequireOwner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !ra.engine.IsOwner(identity) {
				ra.logger.WarnContext(r.Context(), "access denied: owner required",
					"user_id", identity.ID)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
