package postgres

import (
	"context"
	"time"

	"github.com/almajalla/majalla/internal"
	reviewDatamodel "github.com/almajalla/majalla/internal/core/datamodel/review"
	"github.com/almajalla/majalla/internal/review"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) review.RepositoryAPI {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Insert(ctx context.Context, rec *reviewDatamodel.DeletionReview) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*reviewDatamodel.DeletionReview, error) {
	var rec reviewDatamodel.DeletionReview
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrReviewNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *ReviewRepository) ListByStatus(ctx context.Context, status string) ([]*reviewDatamodel.DeletionReview, error) {
	var recs []*reviewDatamodel.DeletionReview
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("requested_at ASC").
		Find(&recs).Error
	return recs, err
}

// TransitionStatus is a compare-and-swap on the status column: the update
// only lands while the review still holds the expected status.
func (r *ReviewRepository) TransitionStatus(ctx context.Context, id int64, from, to string, resolvedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&reviewDatamodel.DeletionReview{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":      to,
			"resolved_at": resolvedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
