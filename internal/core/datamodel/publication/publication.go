package publication

import "time"

type Publication struct {
	ID          int64      `gorm:"primaryKey"`
	TitleAr     string     `gorm:"column:title_ar;not null"`
	TitleEn     string     `gorm:"column:title_en"`
	Slug        string     `gorm:"column:slug;uniqueIndex;not null"`
	ExcerptAr   string     `gorm:"column:excerpt_ar"`
	ExcerptEn   string     `gorm:"column:excerpt_en"`
	BodyAr      string     `gorm:"column:body_ar"`
	BodyEn      string     `gorm:"column:body_en"`
	AuthorName  string     `gorm:"column:author_name;not null"`
	CategoryID  int64      `gorm:"column:category_id;index"`
	CoverURL    string     `gorm:"column:cover_url"`
	IsPublished bool       `gorm:"column:is_published;default:false"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
