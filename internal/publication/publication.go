package publication

import (
	"context"
	"time"

	"github.com/almajalla/majalla/internal/auth"
	publicationDatamodel "github.com/almajalla/majalla/internal/core/datamodel/publication"
)

type Publication struct {
	ID          int64      `json:"id"`
	TitleAr     string     `json:"title_ar"`
	TitleEn     string     `json:"title_en,omitempty"`
	Slug        string     `json:"slug"`
	ExcerptAr   string     `json:"excerpt_ar,omitempty"`
	ExcerptEn   string     `json:"excerpt_en,omitempty"`
	BodyAr      string     `json:"body_ar,omitempty"`
	BodyEn      string     `json:"body_en,omitempty"`
	AuthorName  string     `json:"author_name"`
	CategoryID  int64      `json:"category_id"`
	CoverURL    string     `json:"cover_url,omitempty"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListParams narrows a publication listing. Search matches either title;
// a zero CategoryID means all categories.
type ListParams struct {
	Search        string
	CategoryID    int64
	PublishedOnly bool
	Limit         int
	Offset        int
}

type RepositoryAPI interface {
	Create(ctx context.Context, rec *publicationDatamodel.Publication) error
	Update(ctx context.Context, rec *publicationDatamodel.Publication) error
	GetByID(ctx context.Context, id int64) (*publicationDatamodel.Publication, error)
	GetBySlug(ctx context.Context, slug string) (*publicationDatamodel.Publication, error)
	List(ctx context.Context, params ListParams) ([]*publicationDatamodel.Publication, error)
	Delete(ctx context.Context, id int64) error
}

// ActivityRecorder is the fire-and-forget activity sink.
type ActivityRecorder interface {
	Record(ctx context.Context, actor auth.Identity, actorRole string, action string, details map[string]interface{})
}

func FromDataModel(rec *publicationDatamodel.Publication) *Publication {
	return &Publication{
		ID:          rec.ID,
		TitleAr:     rec.TitleAr,
		TitleEn:     rec.TitleEn,
		Slug:        rec.Slug,
		ExcerptAr:   rec.ExcerptAr,
		ExcerptEn:   rec.ExcerptEn,
		BodyAr:      rec.BodyAr,
		BodyEn:      rec.BodyEn,
		AuthorName:  rec.AuthorName,
		CategoryID:  rec.CategoryID,
		CoverURL:    rec.CoverURL,
		IsPublished: rec.IsPublished,
		PublishedAt: rec.PublishedAt,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
