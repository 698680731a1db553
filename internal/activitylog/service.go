package activitylog

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/almajalla/majalla/internal/auth"
	activityDatamodel "github.com/almajalla/majalla/internal/core/datamodel/activity"
	"github.com/almajalla/majalla/internal/core/events"
	"gorm.io/datatypes"
)

// Recorder is the write side handed to services that govern mutations.
// Record publishes asynchronously; a failed append never surfaces as the
// primary error of the governed action.
type Recorder struct {
	bus    *events.EventBus
	logger *slog.Logger
}

func NewRecorder(bus *events.EventBus, logger *slog.Logger) *Recorder {
	return &Recorder{
		bus:    bus,
		logger: logger,
	}
}

func (r *Recorder) Record(ctx context.Context, actor auth.Identity, actorRole string, action string, details map[string]interface{}) {
	event := events.NewBaseEvent(EventTypeActivity, map[string]interface{}{
		"user_id":    actor.ID,
		"user_email": actor.Email,
		"user_role":  actorRole,
		"action":     action,
		"details":    details,
	})

	// detach from the request context: the mutation is already committed and
	// must complete logging even if the caller navigated away
	if err := r.bus.Publish(context.WithoutCancel(ctx), event); err != nil {
		r.logger.Warn("activity record publish failed", "action", action, "error", err)
	}
}

// Service is the sink side: it subscribes to the bus, appends entries, and
// serves reads for the admin console.
type Service struct {
	repo   Repository
	names  NameResolver
	logger *slog.Logger
}

func NewService(repo Repository, names NameResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		names:  names,
		logger: logger,
	}
}

func (s *Service) RegisterSubscriber(bus *events.EventBus) {
	bus.Subscribe(EventTypeActivity, s.handleEvent)
}

func (s *Service) handleEvent(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		s.logger.Warn("activity event with unexpected payload", "event_id", event.EventID())
		return nil
	}

	entry := &activityDatamodel.LogEntry{
		CreatedAt: event.OccurredAt(),
	}

	if v, ok := data["user_id"].(int64); ok {
		entry.UserID = v
	}
	if v, ok := data["user_email"].(string); ok {
		entry.UserEmail = v
	}
	if v, ok := data["user_role"].(string); ok {
		entry.UserRole = v
	}
	if v, ok := data["action"].(string); ok {
		entry.Action = v
	}
	if v, ok := data["details"]; ok && v != nil {
		if b, err := json.Marshal(v); err == nil {
			entry.Details = datatypes.JSON(b)
		}
	}

	if s.names != nil && entry.UserID != 0 {
		if name, err := s.names.NameByID(ctx, entry.UserID); err == nil {
			entry.UserName = name
		}
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		// append-only sink: log and swallow, never bubble up to the mutation
		s.logger.Error("activity log append failed",
			"action", entry.Action,
			"user_id", entry.UserID,
			"error", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list activity log", "error", err)
		return nil, err
	}

	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromDataModel(row))
	}
	return entries, nil
}
