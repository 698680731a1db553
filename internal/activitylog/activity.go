package activitylog

import (
	"context"
	"encoding/json"
	"time"

	activityDatamodel "github.com/almajalla/majalla/internal/core/datamodel/activity"
)

// EventTypeActivity is the bus event the recorder publishes and the sink
// subscribes to.
const EventTypeActivity = "activity.recorded"

type Entry struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	UserEmail string          `json:"user_email"`
	UserName  string          `json:"user_name,omitempty"`
	UserRole  string          `json:"user_role,omitempty"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Repository interface {
	Append(ctx context.Context, entry *activityDatamodel.LogEntry) error
	List(ctx context.Context, limit, offset int) ([]*activityDatamodel.LogEntry, error)
}

// NameResolver enriches log entries with the actor's display name.
// Resolution is best-effort; a failed lookup never blocks the append.
type NameResolver interface {
	NameByID(ctx context.Context, userID int64) (string, error)
}

func FromDataModel(e *activityDatamodel.LogEntry) *Entry {
	return &Entry{
		ID:        e.ID,
		UserID:    e.UserID,
		UserEmail: e.UserEmail,
		UserName:  e.UserName,
		UserRole:  e.UserRole,
		Action:    e.Action,
		Details:   json.RawMessage(e.Details),
		CreatedAt: e.CreatedAt,
	}
}
