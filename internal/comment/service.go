package comment

import (
	"context"
	"log/slog"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	"github.com/almajalla/majalla/internal/core/common/validation"
	commentDatamodel "github.com/almajalla/majalla/internal/core/datamodel/comment"
)

type Service struct {
	repo          RepositoryAPI
	publications  PublicationChecker
	activity      ActivityRecorder
	autoHideAfter int
	logger        *slog.Logger
}

// NewService wires the comment store and moderation. autoHideAfter is the
// report count at which a comment is hidden without moderator action; zero
// disables auto-hide.
func NewService(repo RepositoryAPI, publications PublicationChecker, activity ActivityRecorder, autoHideAfter int, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		publications:  publications,
		activity:      activity,
		autoHideAfter: autoHideAfter,
		logger:        logger,
	}
}

type CreateCommentDTO struct {
	PublicationID int64  `json:"publication_id"`
	AuthorName    string `json:"author_name"`
	AuthorEmail   string `json:"author_email"`
	Body          string `json:"body"`
}

func (d *CreateCommentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("publication_id", d.PublicationID).Required()
	v.Field("author_name", d.AuthorName).Required().MaxLength(200)
	v.Field("author_email", d.AuthorEmail).Email().MaxLength(320)
	v.Field("body", d.Body).Required().MaxLength(4000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Create posts an anonymous reader comment on a published publication.
func (s *Service) Create(ctx context.Context, dto *CreateCommentDTO) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	published, err := s.publications.IsPublished(ctx, dto.PublicationID)
	if err != nil {
		return nil, err
	}
	if !published {
		return nil, internal.ErrPublicationNotFound
	}

	rec := &commentDatamodel.Comment{
		PublicationID: dto.PublicationID,
		AuthorName:    dto.AuthorName,
		AuthorEmail:   dto.AuthorEmail,
		Body:          dto.Body,
		Status:        StatusVisible,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "comment create failed", "publication_id", dto.PublicationID, "error", err)
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}
	return FromDataModel(rec), nil
}

// ListVisible returns the visible comments on a publication, oldest first.
func (s *Service) ListVisible(ctx context.Context, publicationID int64) ([]*Comment, error) {
	rows, err := s.repo.ListByPublication(ctx, publicationID, StatusVisible)
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}
	return fromDataModels(rows), nil
}

func (s *Service) Like(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.IncrementLikes(ctx, id); err != nil {
		return internal.ErrStoreUnavailable.WithCause(err)
	}
	return nil
}

// Report bumps the report counter and hides the comment once the counter
// crosses the auto-hide threshold.
func (s *Service) Report(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.IncrementReports(ctx, id)
	if err != nil {
		return internal.ErrStoreUnavailable.WithCause(err)
	}

	if s.autoHideAfter > 0 && count >= s.autoHideAfter {
		if err := s.repo.SetStatus(ctx, id, StatusHidden); err != nil {
			s.logger.ErrorContext(ctx, "comment auto-hide failed", "comment_id", id, "error", err)
			return internal.ErrStoreUnavailable.WithCause(err)
		}
		s.logger.InfoContext(ctx, "comment auto-hidden after reports", "comment_id", id, "report_count", count)
	}
	return nil
}

// Hide is moderator action: the comment disappears from public listings but
// stays in the store.
func (s *Service) Hide(ctx context.Context, actor auth.Identity, id int64) error {
	return s.moderate(ctx, actor, id, StatusHidden, "comment hidden")
}

// Restore reverses a hide, manual or automatic.
func (s *Service) Restore(ctx context.Context, actor auth.Identity, id int64) error {
	return s.moderate(ctx, actor, id, StatusVisible, "comment restored")
}

func (s *Service) moderate(ctx context.Context, actor auth.Identity, id int64, status, action string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if rec.Status == status {
		return nil
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return internal.ErrStoreUnavailable.WithCause(err)
	}

	s.activity.Record(ctx, actor, "", action, map[string]interface{}{
		"comment_id":     id,
		"publication_id": rec.PublicationID,
	})
	return nil
}

// ListReported returns comments with at least one report, for the moderation
// queue, most-reported first.
func (s *Service) ListReported(ctx context.Context) ([]*Comment, error) {
	rows, err := s.repo.ListByMinReports(ctx, 1)
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}
	return fromDataModels(rows), nil
}

func fromDataModels(rows []*commentDatamodel.Comment) []*Comment {
	result := make([]*Comment, 0, len(rows))
	for _, row := range rows {
		result = append(result, FromDataModel(row))
	}
	return result
}
