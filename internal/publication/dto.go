package publication

import (
	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/category"
	"github.com/almajalla/majalla/internal/core/common/validation"
)

type CreatePublicationDTO struct {
	TitleAr    string `json:"title_ar"`
	TitleEn    string `json:"title_en"`
	Slug       string `json:"slug"`
	ExcerptAr  string `json:"excerpt_ar"`
	ExcerptEn  string `json:"excerpt_en"`
	BodyAr     string `json:"body_ar"`
	BodyEn     string `json:"body_en"`
	AuthorName string `json:"author_name"`
	CategoryID int64  `json:"category_id"`
	CoverURL   string `json:"cover_url"`
}

func (d *CreatePublicationDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title_ar", d.TitleAr).Required().MaxLength(300)
	v.Field("title_en", d.TitleEn).MaxLength(300)
	v.Field("slug", d.Slug).Required().MaxLength(160)
	v.Field("author_name", d.AuthorName).Required().MaxLength(200)
	v.Field("category_id", d.CategoryID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	if !category.ValidSlug(d.Slug) {
		return internal.NewValidationError("slug must be lowercase letters, digits and hyphens", internal.ErrCodeInvalidSlug)
	}
	return nil
}

type UpdatePublicationDTO struct {
	TitleAr    *string `json:"title_ar"`
	TitleEn    *string `json:"title_en"`
	ExcerptAr  *string `json:"excerpt_ar"`
	ExcerptEn  *string `json:"excerpt_en"`
	BodyAr     *string `json:"body_ar"`
	BodyEn     *string `json:"body_en"`
	AuthorName *string `json:"author_name"`
	CategoryID *int64  `json:"category_id"`
	CoverURL   *string `json:"cover_url"`
}

func (d *UpdatePublicationDTO) Validate() error {
	v := validation.NewValidator()
	if d.TitleAr != nil {
		v.Field("title_ar", *d.TitleAr).Required().MaxLength(300)
	}
	if d.TitleEn != nil {
		v.Field("title_en", *d.TitleEn).MaxLength(300)
	}
	if d.AuthorName != nil {
		v.Field("author_name", *d.AuthorName).Required().MaxLength(200)
	}
	if d.CategoryID != nil {
		v.Field("category_id", *d.CategoryID).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
