package postgres

import (
	"context"

	"github.com/almajalla/majalla/internal"
	publicationDatamodel "github.com/almajalla/majalla/internal/core/datamodel/publication"
	"github.com/almajalla/majalla/internal/publication"
	"gorm.io/gorm"
)

type PublicationRepository struct {
	db *gorm.DB
}

func NewPublicationRepository(db *gorm.DB) publication.RepositoryAPI {
	return &PublicationRepository{db: db}
}

func (r *PublicationRepository) Create(ctx context.Context, rec *publicationDatamodel.Publication) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PublicationRepository) Update(ctx context.Context, rec *publicationDatamodel.Publication) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *PublicationRepository) GetByID(ctx context.Context, id int64) (*publicationDatamodel.Publication, error) {
	var rec publicationDatamodel.Publication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrPublicationNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PublicationRepository) GetBySlug(ctx context.Context, slug string) (*publicationDatamodel.Publication, error) {
	var rec publicationDatamodel.Publication
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrPublicationNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PublicationRepository) List(ctx context.Context, params publication.ListParams) ([]*publicationDatamodel.Publication, error) {
	q := r.db.WithContext(ctx).Model(&publicationDatamodel.Publication{})

	if params.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if params.CategoryID != 0 {
		q = q.Where("category_id = ?", params.CategoryID)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		q = q.Where("title_ar ILIKE ? OR title_en ILIKE ?", pattern, pattern)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}
	if params.Offset > 0 {
		q = q.Offset(params.Offset)
	}

	var recs []*publicationDatamodel.Publication
	err := q.Order("created_at DESC").Find(&recs).Error
	return recs, err
}

func (r *PublicationRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&publicationDatamodel.Publication{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrPublicationNotFound
	}
	return nil
}
