package user

import (
	"context"
	"time"

	"github.com/almajalla/majalla/internal/auth"
	userDatamodel "github.com/almajalla/majalla/internal/core/datamodel/user"
)

type User struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Bio       string      `json:"bio,omitempty"`
	IsActive  bool        `json:"is_active"`
	IsOwner   bool        `json:"is_owner,omitempty"`
	Roles     []auth.Role `json:"roles"`
	CreatedAt time.Time   `json:"created_at"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, rec *userDatamodel.User) error
	Update(ctx context.Context, rec *userDatamodel.User) error
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	List(ctx context.Context, limit, offset int) ([]*userDatamodel.User, error)
}

// RoleReader is the role lookup the user views borrow to attach held roles.
type RoleReader interface {
	RolesForUser(ctx context.Context, userID int64) ([]auth.Role, error)
}

func FromDataModel(rec *userDatamodel.User) *User {
	return &User{
		ID:        rec.ID,
		Email:     rec.Email,
		Name:      rec.Name,
		Bio:       rec.Bio,
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt,
	}
}
