package postgres

import (
	"context"

	"github.com/almajalla/majalla/internal/auth"
	userDatamodel "github.com/almajalla/majalla/internal/core/datamodel/user"
	"github.com/almajalla/majalla/internal/roles"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

var _ roles.RepositoryAPI = (*RoleRepository)(nil)

// RolesForUser also satisfies auth.RoleReader so the authorization engine
// reads the same relation the grant/revoke paths write.
var _ auth.RoleReader = (*RoleRepository)(nil)

func (r *RoleRepository) Insert(ctx context.Context, userID int64, role auth.Role, grantedBy *int64) error {
	row := &userDatamodel.UserRole{
		UserID:    userID,
		Role:      string(role),
		GrantedBy: grantedBy,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *RoleRepository) DeleteAll(ctx context.Context, userID int64, role auth.Role) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, string(role)).
		Delete(&userDatamodel.UserRole{}).Error
}

func (r *RoleRepository) RolesForUser(ctx context.Context, userID int64) ([]auth.Role, error) {
	var rows []userDatamodel.UserRole
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]auth.Role, 0, len(rows))
	for _, row := range rows {
		result = append(result, auth.Role(row.Role))
	}
	return result, nil
}
