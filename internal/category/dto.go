package category

import "github.com/almajalla/majalla/internal/core/common/validation"

type CreateCategoryDTO struct {
	NameAr      string `json:"name_ar"`
	NameEn      string `json:"name_en"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (d *CreateCategoryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name_ar", d.NameAr).Required().MaxLength(200)
	v.Field("name_en", d.NameEn).Required().MaxLength(200)
	v.Field("slug", d.Slug).Required().MaxLength(120)
	v.Field("description", d.Description).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	if err := ValidateSlug(d.Slug); err != nil {
		return err
	}
	return nil
}

type UpdateCategoryDTO struct {
	NameAr      *string `json:"name_ar"`
	NameEn      *string `json:"name_en"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (d *UpdateCategoryDTO) Validate() error {
	v := validation.NewValidator()
	if d.NameAr != nil {
		v.Field("name_ar", *d.NameAr).Required().MaxLength(200)
	}
	if d.NameEn != nil {
		v.Field("name_en", *d.NameEn).Required().MaxLength(200)
	}
	if d.Description != nil {
		v.Field("description", *d.Description).MaxLength(2000)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
