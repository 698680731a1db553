package category

import "time"

type Category struct {
	ID          int64     `gorm:"primaryKey"`
	NameAr      string    `gorm:"column:name_ar;not null"`
	NameEn      string    `gorm:"column:name_en;not null"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
