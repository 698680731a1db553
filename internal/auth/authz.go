package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/almajalla/majalla/internal"
)

// RoleReader looks up the persisted role assignments for one user. The
// engine re-derives authorization fresh on every check; it never caches.
type RoleReader interface {
	RolesForUser(ctx context.Context, userID int64) ([]Role, error)
}

// Engine answers authorization questions for a given identity. The owner
// email comes from configuration; ownership is recognized by exact
// case-insensitive email match, bypasses the role store entirely, and is
// not revocable through it.
type Engine struct {
	ownerEmail string
	roles      RoleReader
	logger     *slog.Logger
}

func NewEngine(ownerEmail string, roles RoleReader, logger *slog.Logger) *Engine {
	return &Engine{
		ownerEmail: ownerEmail,
		roles:      roles,
		logger:     logger,
	}
}

// IsOwner is pure and synchronous; no store lookup is involved.
func (e *Engine) IsOwner(identity Identity) bool {
	return identity.Email != "" && strings.EqualFold(identity.Email, e.ownerEmail)
}

// HasRole reports whether the identity holds the role. The owner implicitly
// holds every role for gating purposes but is never stored. A failed role
// store lookup denies (fail closed) and surfaces StoreUnavailable.
func (e *Engine) HasRole(ctx context.Context, identity Identity, role Role) (bool, error) {
	if e.IsOwner(identity) {
		return true, nil
	}

	roles, err := e.roles.RolesForUser(ctx, identity.ID)
	if err != nil {
		e.logger.ErrorContext(ctx, "role lookup failed, denying",
			"user_id", identity.ID,
			"role", role,
			"error", err)
		return false, internal.ErrStoreUnavailable.WithCause(err)
	}

	for _, r := range roles {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

// CanAccessAdminSection gates an admin page: the owner always passes,
// otherwise any one of the required roles suffices.
func (e *Engine) CanAccessAdminSection(ctx context.Context, identity Identity, required ...Role) (bool, error) {
	if e.IsOwner(identity) {
		return true, nil
	}
	if len(required) == 0 {
		// no role passes an owner-only section
		return false, nil
	}

	roles, err := e.roles.RolesForUser(ctx, identity.ID)
	if err != nil {
		e.logger.ErrorContext(ctx, "role lookup failed, denying",
			"user_id", identity.ID,
			"error", err)
		return false, internal.ErrStoreUnavailable.WithCause(err)
	}

	for _, r := range roles {
		for _, req := range required {
			if r == req {
				return true, nil
			}
		}
	}
	return false, nil
}

// CanDeleteInstantly reports whether deletes may bypass the review queue.
// Non-owners with admin/editor roles still mutate non-destructive fields
// freely but their deletes are routed through the review workflow.
func (e *Engine) CanDeleteInstantly(identity Identity) bool {
	return e.IsOwner(identity)
}

// CanGrantRole decides role grant/revoke permission: the owner may grant
// anything; only the owner may touch the admin role; admins and editors may
// grant editor/author; authors may grant nothing.
func (e *Engine) CanGrantRole(ctx context.Context, actor Identity, role Role) (bool, error) {
	if e.IsOwner(actor) {
		return true, nil
	}
	if role == RoleAdmin {
		return false, nil
	}
	return e.CanAccessAdminSection(ctx, actor, RoleAdmin, RoleEditor)
}
