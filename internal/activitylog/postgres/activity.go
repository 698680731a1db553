package postgres

import (
	"context"

	"github.com/almajalla/majalla/internal/activitylog"
	activityDatamodel "github.com/almajalla/majalla/internal/core/datamodel/activity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activitylog.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, entry *activityDatamodel.LogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActivityRepository) List(ctx context.Context, limit, offset int) ([]*activityDatamodel.LogEntry, error) {
	var entries []*activityDatamodel.LogEntry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}
