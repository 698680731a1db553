package publication

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	publicationDatamodel "github.com/almajalla/majalla/internal/core/datamodel/publication"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
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

// ListPublished serves the public site: published publications only,
// newest first, optionally filtered by search text and category.
func (s *Service) ListPublished(ctx context.Context, params ListParams) ([]*Publication, error) {
	params.PublishedOnly = true
	return s.list(ctx, params)
}

// ListAll serves the admin console: drafts included.
func (s *Service) ListAll(ctx context.Context, params ListParams) ([]*Publication, error) {
	params.PublishedOnly = false
	return s.list(ctx, params)
}

func (s *Service) list(ctx context.Context, params ListParams) ([]*Publication, error) {
	if params.Limit <= 0 {
		params.Limit = defaultPageSize
	}
	if params.Limit > maxPageSize {
		params.Limit = maxPageSize
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}

	result := make([]*Publication, 0, len(rows))
	for _, row := range rows {
		result = append(result, FromDataModel(row))
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Publication, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(rec), nil
}

// GetBySlug serves the public reading page. Unpublished drafts stay hidden.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Publication, error) {
	rec, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !rec.IsPublished {
		return nil, internal.ErrPublicationNotFound
	}
	return FromDataModel(rec), nil
}

// IsPublished reports whether the publication exists and is publicly
// visible. Comment creation checks this before accepting a comment.
func (s *Service) IsPublished(ctx context.Context, id int64) (bool, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return rec.IsPublished, nil
}

func (s *Service) CreatePublication(ctx context.Context, actor auth.Identity, dto *CreatePublicationDTO) (*Publication, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rec := &publicationDatamodel.Publication{
		TitleAr:    dto.TitleAr,
		TitleEn:    dto.TitleEn,
		Slug:       dto.Slug,
		ExcerptAr:  dto.ExcerptAr,
		ExcerptEn:  dto.ExcerptEn,
		BodyAr:     dto.BodyAr,
		BodyEn:     dto.BodyEn,
		AuthorName: dto.AuthorName,
		CategoryID: dto.CategoryID,
		CoverURL:   dto.CoverURL,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "publication create failed", "slug", dto.Slug, "error", err)
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "publication created", "publication_id", rec.ID, "slug", rec.Slug)
	s.activity.Record(ctx, actor, "", "publication created", map[string]interface{}{
		"publication_id": rec.ID,
		"slug":           rec.Slug,
	})
	return FromDataModel(rec), nil
}

func (s *Service) UpdatePublication(ctx context.Context, actor auth.Identity, id int64, dto *UpdatePublicationDTO) (*Publication, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.TitleAr != nil {
		rec.TitleAr = *dto.TitleAr
	}
	if dto.TitleEn != nil {
		rec.TitleEn = *dto.TitleEn
	}
	if dto.ExcerptAr != nil {
		rec.ExcerptAr = *dto.ExcerptAr
	}
	if dto.ExcerptEn != nil {
		rec.ExcerptEn = *dto.ExcerptEn
	}
	if dto.BodyAr != nil {
		rec.BodyAr = *dto.BodyAr
	}
	if dto.BodyEn != nil {
		rec.BodyEn = *dto.BodyEn
	}
	if dto.AuthorName != nil {
		rec.AuthorName = *dto.AuthorName
	}
	if dto.CategoryID != nil {
		rec.CategoryID = *dto.CategoryID
	}
	if dto.CoverURL != nil {
		rec.CoverURL = *dto.CoverURL
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "publication update failed", "publication_id", id, "error", err)
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}

	s.activity.Record(ctx, actor, "", "publication updated", map[string]interface{}{
		"publication_id": rec.ID,
		"slug":           rec.Slug,
	})
	return FromDataModel(rec), nil
}

// Publish makes a draft visible on the public site. Publishing an already
// published publication keeps the original PublishedAt.
func (s *Service) Publish(ctx context.Context, actor auth.Identity, id int64) (*Publication, error) {
	return s.setPublished(ctx, actor, id, true)
}

func (s *Service) Unpublish(ctx context.Context, actor auth.Identity, id int64) (*Publication, error) {
	return s.setPublished(ctx, actor, id, false)
}

func (s *Service) setPublished(ctx context.Context, actor auth.Identity, id int64, published bool) (*Publication, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.IsPublished != published {
		rec.IsPublished = published
		if published && rec.PublishedAt == nil {
			now := time.Now()
			rec.PublishedAt = &now
		}
		if err := s.repo.Update(ctx, rec); err != nil {
			s.logger.ErrorContext(ctx, "publication publish state update failed", "publication_id", id, "error", err)
			return nil, internal.ErrStoreUnavailable.WithCause(err)
		}

		action := "publication published"
		if !published {
			action = "publication unpublished"
		}
		s.activity.Record(ctx, actor, "", action, map[string]interface{}{
			"publication_id": rec.ID,
			"slug":           rec.Slug,
		})
	}
	return FromDataModel(rec), nil
}

// ItemSource adapts the publication store to the deletion review workflow.
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
