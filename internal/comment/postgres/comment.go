package postgres

import (
	"context"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/comment"
	commentDatamodel "github.com/almajalla/majalla/internal/core/datamodel/comment"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) comment.RepositoryAPI {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, rec *commentDatamodel.Comment) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*commentDatamodel.Comment, error) {
	var rec commentDatamodel.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrCommentNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *CommentRepository) ListByPublication(ctx context.Context, publicationID int64, status string) ([]*commentDatamodel.Comment, error) {
	var recs []*commentDatamodel.Comment
	q := r.db.WithContext(ctx).Where("publication_id = ?", publicationID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at ASC").Find(&recs).Error
	return recs, err
}

func (r *CommentRepository) ListByMinReports(ctx context.Context, minReports int) ([]*commentDatamodel.Comment, error) {
	var recs []*commentDatamodel.Comment
	err := r.db.WithContext(ctx).
		Where("report_count >= ?", minReports).
		Order("report_count DESC, created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *CommentRepository) IncrementLikes(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&commentDatamodel.Comment{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}

func (r *CommentRepository) IncrementReports(ctx context.Context, id int64) (int, error) {
	err := r.db.WithContext(ctx).
		Model(&commentDatamodel.Comment{}).
		Where("id = ?", id).
		UpdateColumn("report_count", gorm.Expr("report_count + 1")).Error
	if err != nil {
		return 0, err
	}

	var rec commentDatamodel.Comment
	if err := r.db.WithContext(ctx).Select("report_count").Where("id = ?", id).First(&rec).Error; err != nil {
		return 0, err
	}
	return rec.ReportCount, nil
}

func (r *CommentRepository) SetStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&commentDatamodel.Comment{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
