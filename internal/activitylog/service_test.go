package activitylog_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/almajalla/majalla/internal/activitylog"
	activityDatamodel "github.com/almajalla/majalla/internal/core/datamodel/activity"
	"github.com/almajalla/majalla/internal/core/events"
)

func TestActivityLog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ActivityLog Suite")
}

// Mock append-only repository for testing
type mockActivityRepo struct {
	entries   []*activityDatamodel.LogEntry
	appendErr error
}

func (m *mockActivityRepo) Append(ctx context.Context, entry *activityDatamodel.LogEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityRepo) List(ctx context.Context, limit, offset int) ([]*activityDatamodel.LogEntry, error) {
	return m.entries, nil
}

type mockNameResolver struct {
	names map[int64]string
}

func (m *mockNameResolver) NameByID(ctx context.Context, userID int64) (string, error) {
	name, ok := m.names[userID]
	if !ok {
		return "", errors.New("unknown user")
	}
	return name, nil
}

var _ = Describe("ActivityLog", func() {
	var (
		bus     *events.EventBus
		repo    *mockActivityRepo
		service *activitylog.Service
		ctx     context.Context
	)

	newEvent := func(userID int64, action string) events.BaseEvent {
		return events.NewBaseEvent(activitylog.EventTypeActivity, map[string]interface{}{
			"user_id":    userID,
			"user_email": "editor@majalla.example",
			"user_role":  "editor",
			"action":     action,
			"details":    map[string]interface{}{"item_id": int64(100)},
		})
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		repo = &mockActivityRepo{}
		names := &mockNameResolver{names: map[int64]string{3: "Layla"}}
		service = activitylog.NewService(repo, names, logger)
		service.RegisterSubscriber(bus)
		ctx = context.Background()
	})

	Describe("event handling", func() {
		It("should append an enriched entry from a bus event", func() {
			err := bus.PublishSync(ctx, newEvent(3, "publication deletion requested"))
			Expect(err).ToNot(HaveOccurred())

			Expect(repo.entries).To(HaveLen(1))
			entry := repo.entries[0]
			Expect(entry.UserID).To(Equal(int64(3)))
			Expect(entry.UserEmail).To(Equal("editor@majalla.example"))
			Expect(entry.UserName).To(Equal("Layla"))
			Expect(entry.UserRole).To(Equal("editor"))
			Expect(entry.Action).To(Equal("publication deletion requested"))
			Expect(entry.Details).ToNot(BeEmpty())
		})

		It("should keep the entry when the name lookup fails", func() {
			err := bus.PublishSync(ctx, newEvent(99, "role granted"))
			Expect(err).ToNot(HaveOccurred())

			Expect(repo.entries).To(HaveLen(1))
			Expect(repo.entries[0].UserName).To(BeEmpty())
		})

		It("should swallow append failures instead of failing the publisher", func() {
			repo.appendErr = errors.New("disk full")

			err := bus.PublishSync(ctx, newEvent(3, "category updated"))
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("List", func() {
		It("should return stored entries", func() {
			Expect(bus.PublishSync(ctx, newEvent(3, "role granted"))).To(Succeed())
			Expect(bus.PublishSync(ctx, newEvent(3, "role revoked"))).To(Succeed())

			entries, err := service.List(ctx, 0, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(HaveLen(2))
		})
	})
})
