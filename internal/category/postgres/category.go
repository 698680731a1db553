package postgres

import (
	"context"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/category"
	categoryDatamodel "github.com/almajalla/majalla/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, rec *categoryDatamodel.Category) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *CategoryRepository) Update(ctx context.Context, rec *categoryDatamodel.Category) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	var rec categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrCategoryNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*categoryDatamodel.Category, error) {
	var rec categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrCategoryNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *CategoryRepository) GetAll(ctx context.Context, activeOnly bool) ([]*categoryDatamodel.Category, error) {
	var recs []*categoryDatamodel.Category
	q := r.db.WithContext(ctx).Order("name_en ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&recs).Error
	return recs, err
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&categoryDatamodel.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrCategoryNotFound
	}
	return nil
}
