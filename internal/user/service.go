package user

import (
	"context"
	"log/slog"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	"github.com/almajalla/majalla/internal/core/common/validation"
	userDatamodel "github.com/almajalla/majalla/internal/core/datamodel/user"
	"github.com/almajalla/majalla/internal/roles"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// PasswordHasher hashes a plaintext password for storage.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo      RepositoryAPI
	roleStore RoleReader
	engine    *auth.Engine
	hasher    PasswordHasher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, roleStore RoleReader, engine *auth.Engine, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		roleStore: roleStore,
		engine:    engine,
		hasher:    hasher,
		logger:    logger,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withRoles(ctx, rec), nil
}

// IDByEmail resolves an account by email for the role grant path.
func (s *Service) IDByEmail(ctx context.Context, email string) (int64, error) {
	rec, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// NameByID is the best-effort display name lookup for activity log entries.
func (s *Service) NameByID(ctx context.Context, userID int64) (string, error) {
	rec, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return rec.Name, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}

	result := make([]*User, 0, len(rows))
	for _, row := range rows {
		result = append(result, s.withRoles(ctx, row))
	}
	return result, nil
}

type CreateUserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

func (d *CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(320)
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("password", d.Password).Required().MaxLength(128)
	v.Field("bio", d.Bio).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	if len(d.Password) < 8 {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (s *Service) CreateUser(ctx context.Context, dto *CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	rec := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		Bio:          dto.Bio,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "user create failed", "email", dto.Email, "error", err)
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", rec.ID, "email", rec.Email)
	return s.withRoles(ctx, rec), nil
}

func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*User, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.IsActive != active {
		rec.IsActive = active
		if err := s.repo.Update(ctx, rec); err != nil {
			s.logger.ErrorContext(ctx, "user active state update failed", "user_id", id, "error", err)
			return nil, internal.ErrStoreUnavailable.WithCause(err)
		}
	}
	return s.withRoles(ctx, rec), nil
}

// withRoles attaches the deduped held roles and the owner flag. Role lookup
// is best-effort for presentation; a store failure leaves roles empty rather
// than failing the whole read.
func (s *Service) withRoles(ctx context.Context, rec *userDatamodel.User) *User {
	u := FromDataModel(rec)
	u.IsOwner = s.engine.IsOwner(auth.Identity{ID: rec.ID, Email: rec.Email})

	held, err := s.roleStore.RolesForUser(ctx, rec.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "role lookup failed for user view", "user_id", rec.ID, "error", err)
		u.Roles = []auth.Role{}
		return u
	}
	u.Roles = roles.Dedupe(held)
	return u
}
