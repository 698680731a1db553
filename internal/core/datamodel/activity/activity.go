package activity

import (
	"time"

	"gorm.io/datatypes"
)

// LogEntry is append-only. Rows are never updated or deleted by normal
// operation and are not authoritative for authorization.
type LogEntry struct {
	ID        int64          `gorm:"primaryKey"`
	UserID    int64          `gorm:"column:user_id;index"`
	UserEmail string         `gorm:"column:user_email"`
	UserName  string         `gorm:"column:user_name"`
	UserRole  string         `gorm:"column:user_role"`
	Action    string         `gorm:"column:action;not null;index"`
	Details   datatypes.JSON `gorm:"column:details;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (LogEntry) TableName() string {
	return "activity_log"
}
