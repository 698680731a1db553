package postgres

import (
	"context"
	"strings"

	"github.com/almajalla/majalla/internal"
	userDatamodel "github.com/almajalla/majalla/internal/core/datamodel/user"
	"github.com/almajalla/majalla/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, rec *userDatamodel.User) error {
	rec.Email = strings.ToLower(rec.Email)
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *UserRepository) Update(ctx context.Context, rec *userDatamodel.User) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var rec userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var rec userDatamodel.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*userDatamodel.User, error) {
	var recs []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&recs).Error
	return recs, err
}
