package comment

import "time"

type Comment struct {
	ID            int64     `gorm:"primaryKey"`
	PublicationID int64     `gorm:"column:publication_id;not null;index"`
	AuthorName    string    `gorm:"column:author_name;not null"`
	AuthorEmail   string    `gorm:"column:author_email"`
	Body          string    `gorm:"column:body;not null"`
	Status        string    `gorm:"column:status;not null;default:visible;index"`
	Likes         int       `gorm:"column:likes;default:0"`
	ReportCount   int       `gorm:"column:report_count;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
