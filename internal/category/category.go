package category

import (
	"context"
	"regexp"
	"time"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	categoryDatamodel "github.com/almajalla/majalla/internal/core/datamodel/category"
)

type Category struct {
	ID          int64     `json:"id"`
	NameAr      string    `json:"name_ar"`
	NameEn      string    `json:"name_en"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, rec *categoryDatamodel.Category) error
	Update(ctx context.Context, rec *categoryDatamodel.Category) error
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetBySlug(ctx context.Context, slug string) (*categoryDatamodel.Category, error)
	GetAll(ctx context.Context, activeOnly bool) ([]*categoryDatamodel.Category, error)
	Delete(ctx context.Context, id int64) error
}

// ActivityRecorder is the fire-and-forget activity sink.
type ActivityRecorder interface {
	Record(ctx context.Context, actor auth.Identity, actorRole string, action string, details map[string]interface{})
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

func ValidateSlug(slug string) *internal.AppError {
	if !ValidSlug(slug) {
		return internal.NewValidationError("slug must be lowercase letters, digits and hyphens", internal.ErrCodeInvalidSlug)
	}
	return nil
}

func FromDataModel(rec *categoryDatamodel.Category) *Category {
	return &Category{
		ID:          rec.ID,
		NameAr:      rec.NameAr,
		NameEn:      rec.NameEn,
		Slug:        rec.Slug,
		Description: rec.Description,
		IsActive:    rec.IsActive,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
