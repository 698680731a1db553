package review

import (
	"time"

	"gorm.io/datatypes"
)

// DeletionReview stands in for an immediate delete requested by a non-owner.
// ItemData is a denormalized snapshot captured at request time so the review
// console can render the item even if it is concurrently modified.
type DeletionReview struct {
	ID               int64          `gorm:"primaryKey"`
	ItemType         string         `gorm:"column:item_type;not null;index"`
	ItemID           int64          `gorm:"column:item_id;not null;index"`
	ItemData         datatypes.JSON `gorm:"column:item_data;type:jsonb"`
	RequestedBy      int64          `gorm:"column:requested_by;not null"`
	RequestedByEmail string         `gorm:"column:requested_by_email;not null"`
	RequestedAt      time.Time      `gorm:"column:requested_at;autoCreateTime"`
	Status           string         `gorm:"column:status;not null;default:pending;index"`
	ResolvedAt       *time.Time     `gorm:"column:resolved_at"`
}

func (DeletionReview) TableName() string {
	return "deletion_reviews"
}
