package category

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	categoryDatamodel "github.com/almajalla/majalla/internal/core/datamodel/category"
)

type Service struct {
	repo     RepositoryAPI
	activity ActivityRecorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, activity ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		activity: activity,
		logger:   logger,
	}
}

// GetAllCategories serves the public site: active categories only.
func (s *Service) GetAllCategories(ctx context.Context) ([]*Category, error) {
	rows, err := s.repo.GetAll(ctx, true)
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}
	return fromDataModels(rows), nil
}

// ListCategories serves the admin console: every category, active or not.
func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := s.repo.GetAll(ctx, false)
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}
	return fromDataModels(rows), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(rec), nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	rec, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return FromDataModel(rec), nil
}

func (s *Service) CreateCategory(ctx context.Context, actor auth.Identity, dto *CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rec := &categoryDatamodel.Category{
		NameAr:      dto.NameAr,
		NameEn:      dto.NameEn,
		Slug:        dto.Slug,
		Description: dto.Description,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "category create failed", "slug", dto.Slug, "error", err)
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "category created", "category_id", rec.ID, "slug", rec.Slug)
	s.activity.Record(ctx, actor, "", "category created", map[string]interface{}{
		"category_id": rec.ID,
		"slug":        rec.Slug,
	})
	return FromDataModel(rec), nil
}

func (s *Service) UpdateCategory(ctx context.Context, actor auth.Identity, id int64, dto *UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.NameAr != nil {
		rec.NameAr = *dto.NameAr
	}
	if dto.NameEn != nil {
		rec.NameEn = *dto.NameEn
	}
	if dto.Description != nil {
		rec.Description = *dto.Description
	}
	if dto.IsActive != nil {
		rec.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "category update failed", "category_id", id, "error", err)
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}

	s.activity.Record(ctx, actor, "", "category updated", map[string]interface{}{
		"category_id": rec.ID,
		"slug":        rec.Slug,
	})
	return FromDataModel(rec), nil
}

func fromDataModels(rows []*categoryDatamodel.Category) []*Category {
	result := make([]*Category, 0, len(rows))
	for _, row := range rows {
		result = append(result, FromDataModel(row))
	}
	return result
}

// ItemSource adapts the category store to the deletion review workflow.
type ItemSource struct {
	repo RepositoryAPI
}

func NewItemSource(repo RepositoryAPI) *ItemSource {
	return &ItemSource{repo: repo}
}

func (s *ItemSource) Snapshot(ctx context.Context, itemID int64) (json.RawMessage, error) {
	rec, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(FromDataModel(rec))
}

func (s *ItemSource) Delete(ctx context.Context, itemID int64) error {
	return s.repo.Delete(ctx, itemID)
}
