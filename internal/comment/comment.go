package comment

import (
	"context"
	"time"

	"github.com/almajalla/majalla/internal/auth"
	commentDatamodel "github.com/almajalla/majalla/internal/core/datamodel/comment"
)

const (
	StatusVisible = "visible"
	StatusHidden  = "hidden"
)

type Comment struct {
	ID            int64     `json:"id"`
	PublicationID int64     `json:"publication_id"`
	AuthorName    string    `json:"author_name"`
	Body          string    `json:"body"`
	Status        string    `json:"status"`
	Likes         int       `json:"likes"`
	ReportCount   int       `json:"report_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, rec *commentDatamodel.Comment) error
	GetByID(ctx context.Context, id int64) (*commentDatamodel.Comment, error)
	ListByPublication(ctx context.Context, publicationID int64, status string) ([]*commentDatamodel.Comment, error)
	ListByMinReports(ctx context.Context, minReports int) ([]*commentDatamodel.Comment, error)
	IncrementLikes(ctx context.Context, id int64) error
	// IncrementReports bumps the report counter and returns the new count.
	IncrementReports(ctx context.Context, id int64) (int, error)
	SetStatus(ctx context.Context, id int64, status string) error
}

// PublicationChecker verifies the target publication exists and is public
// before a comment lands on it.
type PublicationChecker interface {
	IsPublished(ctx context.Context, publicationID int64) (bool, error)
}

// ActivityRecorder is the fire-and-forget activity sink.
type ActivityRecorder interface {
	Record(ctx context.Context, actor auth.Identity, actorRole string, action string, details map[string]interface{})
}

func FromDataModel(rec *commentDatamodel.Comment) *Comment {
	return &Comment{
		ID:            rec.ID,
		PublicationID: rec.PublicationID,
		AuthorName:    rec.AuthorName,
		Body:          rec.Body,
		Status:        rec.Status,
		Likes:         rec.Likes,
		ReportCount:   rec.ReportCount,
		CreatedAt:     rec.CreatedAt,
	}
}
