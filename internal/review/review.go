package review

import (
	"context"
	"encoding/json"
	"time"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	reviewDatamodel "github.com/almajalla/majalla/internal/core/datamodel/review"
)

const (
	ItemTypeCategory    = "category"
	ItemTypePublication = "publication"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func ValidItemType(itemType string) bool {
	return itemType == ItemTypeCategory || itemType == ItemTypePublication
}

type Review struct {
	ID               int64           `json:"id"`
	ItemType         string          `json:"item_type"`
	ItemID           int64           `json:"item_id"`
	ItemData         json.RawMessage `json:"item_data,omitempty"`
	RequestedBy      int64           `json:"requested_by"`
	RequestedByEmail string          `json:"requested_by_email"`
	RequestedAt      time.Time       `json:"requested_at"`
	Status           string          `json:"status"`
	ResolvedAt       *time.Time      `json:"resolved_at,omitempty"`
}

type RepositoryAPI interface {
	Insert(ctx context.Context, rec *reviewDatamodel.DeletionReview) error
	GetByID(ctx context.Context, id int64) (*reviewDatamodel.DeletionReview, error)
	ListByStatus(ctx context.Context, status string) ([]*reviewDatamodel.DeletionReview, error)
	// TransitionStatus moves the review from one status to another only if it
	// still holds the expected status; it reports whether a row transitioned.
	// This is the compare-and-swap that keeps concurrent approvals from
	// double-applying.
	TransitionStatus(ctx context.Context, id int64, from, to string, resolvedAt time.Time) (bool, error)
}

// ItemSource is one deletable table. Snapshot captures the item as it is at
// request time; Delete removes it by id.
type ItemSource interface {
	Snapshot(ctx context.Context, itemID int64) (json.RawMessage, error)
	Delete(ctx context.Context, itemID int64) error
}

// Registry maps item types onto their stores. The review workflow treats
// items as opaque keyed records.
type Registry struct {
	sources map[string]ItemSource
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]ItemSource)}
}

func (r *Registry) Register(itemType string, source ItemSource) {
	r.sources[itemType] = source
}

func (r *Registry) source(itemType string) (ItemSource, error) {
	src, ok := r.sources[itemType]
	if !ok {
		return nil, internal.NewValidationError("unknown item type", internal.ErrCodeInvalidItemType)
	}
	return src, nil
}

// ActivityRecorder is the fire-and-forget activity sink.
type ActivityRecorder interface {
	Record(ctx context.Context, actor auth.Identity, actorRole string, action string, details map[string]interface{})
}

// IsNotFound reports whether the error is one of the item-not-found
// AppErrors, which the approval path tolerates.
func IsNotFound(err error) bool {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case internal.ErrCodeCategoryNotFound, internal.ErrCodePublicationNotFound:
		return true
	}
	return false
}

func FromDataModel(rec *reviewDatamodel.DeletionReview) *Review {
	return &Review{
		ID:               rec.ID,
		ItemType:         rec.ItemType,
		ItemID:           rec.ItemID,
		ItemData:         json.RawMessage(rec.ItemData),
		RequestedBy:      rec.RequestedBy,
		RequestedByEmail: rec.RequestedByEmail,
		RequestedAt:      rec.RequestedAt,
		Status:           rec.Status,
		ResolvedAt:       rec.ResolvedAt,
	}
}
