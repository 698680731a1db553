package roles

import (
	"context"
	"log/slog"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
)

type Service struct {
	repo     RepositoryAPI
	users    UserResolver
	engine   *auth.Engine
	activity ActivityRecorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, users UserResolver, engine *auth.Engine, activity ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		engine:   engine,
		activity: activity,
		logger:   logger,
	}
}

// Grant assigns a role to the user holding targetEmail. Only the owner may
// grant admin; admins and editors may grant editor/author. A grant the
// target already holds is a redundant no-op.
func (s *Service) Grant(ctx context.Context, actor auth.Identity, targetEmail string, role auth.Role) error {
	allowed, err := s.engine.CanGrantRole(ctx, actor, role)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.WarnContext(ctx, "role grant denied",
			"actor_id", actor.ID,
			"target_email", targetEmail,
			"role", role)
		return internal.ErrPermissionDenied
	}

	targetID, err := s.users.IDByEmail(ctx, targetEmail)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeUserNotFound {
			return err
		}
		s.logger.ErrorContext(ctx, "target lookup failed", "target_email", targetEmail, "error", err)
		return internal.ErrStoreUnavailable.WithCause(err)
	}

	existing, err := s.repo.RolesForUser(ctx, targetID)
	if err != nil {
		return internal.ErrStoreUnavailable.WithCause(err)
	}
	for _, r := range existing {
		if r == role {
			s.logger.InfoContext(ctx, "role already held, skipping grant",
				"target_user_id", targetID,
				"role", role)
			return nil
		}
	}

	grantedBy := actor.ID
	if err := s.repo.Insert(ctx, targetID, role, &grantedBy); err != nil {
		s.logger.ErrorContext(ctx, "role insert failed", "target_user_id", targetID, "role", role, "error", err)
		return internal.ErrStoreUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "role granted",
		"actor_id", actor.ID,
		"target_user_id", targetID,
		"role", role)

	s.activity.Record(ctx, actor, s.actorRole(actor), "role granted", map[string]interface{}{
		"target_user_id": targetID,
		"target_email":   targetEmail,
		"role":           string(role),
	})
	return nil
}

// Revoke removes every (user, role) row. The permission rule mirrors Grant:
// only the owner may revoke admin.
func (s *Service) Revoke(ctx context.Context, actor auth.Identity, targetUserID int64, role auth.Role) error {
	allowed, err := s.engine.CanGrantRole(ctx, actor, role)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.WarnContext(ctx, "role revoke denied",
			"actor_id", actor.ID,
			"target_user_id", targetUserID,
			"role", role)
		return internal.ErrPermissionDenied
	}

	if err := s.repo.DeleteAll(ctx, targetUserID, role); err != nil {
		s.logger.ErrorContext(ctx, "role delete failed", "target_user_id", targetUserID, "role", role, "error", err)
		return internal.ErrStoreUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "role revoked",
		"actor_id", actor.ID,
		"target_user_id", targetUserID,
		"role", role)

	s.activity.Record(ctx, actor, s.actorRole(actor), "role revoked", map[string]interface{}{
		"target_user_id": targetUserID,
		"role":           string(role),
	})
	return nil
}

// RolesForUser returns the user's roles de-duplicated for presentation.
func (s *Service) RolesForUser(ctx context.Context, userID int64) ([]auth.Role, error) {
	raw, err := s.repo.RolesForUser(ctx, userID)
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}
	return Dedupe(raw), nil
}

// actorRole is best-effort labelling for the activity log; it never blocks
// the governed mutation.
func (s *Service) actorRole(actor auth.Identity) string {
	if s.engine.IsOwner(actor) {
		return "owner"
	}
	held, err := s.repo.RolesForUser(context.Background(), actor.ID)
	if err != nil || len(held) == 0 {
		return ""
	}
	return string(Dedupe(held)[0])
}
