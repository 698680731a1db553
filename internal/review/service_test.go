package review_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	reviewDatamodel "github.com/almajalla/majalla/internal/core/datamodel/review"
	"github.com/almajalla/majalla/internal/review"
)

func TestReview(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Review Suite")
}

// Mock review repository with an honest compare-and-swap.
type mockReviewRepo struct {
	reviews       map[int64]*reviewDatamodel.DeletionReview
	nextID        int64
	insertErr     error
	transitionErr error
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{
		reviews: make(map[int64]*reviewDatamodel.DeletionReview),
		nextID:  1,
	}
}

func (m *mockReviewRepo) Insert(ctx context.Context, rec *reviewDatamodel.DeletionReview) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	rec.ID = m.nextID
	m.nextID++
	clone := *rec
	m.reviews[rec.ID] = &clone
	return nil
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id int64) (*reviewDatamodel.DeletionReview, error) {
	rec, ok := m.reviews[id]
	if !ok {
		return nil, internal.ErrReviewNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *mockReviewRepo) ListByStatus(ctx context.Context, status string) ([]*reviewDatamodel.DeletionReview, error) {
	var out []*reviewDatamodel.DeletionReview
	for _, rec := range m.reviews {
		if rec.Status == status {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) TransitionStatus(ctx context.Context, id int64, from, to string, resolvedAt time.Time) (bool, error) {
	if m.transitionErr != nil {
		return false, m.transitionErr
	}
	rec, ok := m.reviews[id]
	if !ok || rec.Status != from {
		return false, nil
	}
	rec.Status = to
	rec.ResolvedAt = &resolvedAt
	return true, nil
}

// Mock item source backed by an in-memory table.
type mockItemSource struct {
	items       map[int64]string
	deleteErr   error
	snapshotErr error
}

func newMockItemSource() *mockItemSource {
	return &mockItemSource{items: make(map[int64]string)}
}

func (m *mockItemSource) Snapshot(ctx context.Context, itemID int64) (json.RawMessage, error) {
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	title, ok := m.items[itemID]
	if !ok {
		return nil, internal.ErrPublicationNotFound
	}
	return json.Marshal(map[string]interface{}{"id": itemID, "title": title})
}

func (m *mockItemSource) Delete(ctx context.Context, itemID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.items[itemID]; !ok {
		return internal.ErrPublicationNotFound
	}
	delete(m.items, itemID)
	return nil
}

type mockRoleReader struct {
	roles map[int64][]auth.Role
}

func (m *mockRoleReader) RolesForUser(ctx context.Context, userID int64) ([]auth.Role, error) {
	return m.roles[userID], nil
}

type mockActivityRecorder struct {
	actions []string
}

func (m *mockActivityRecorder) Record(ctx context.Context, actor auth.Identity, actorRole string, action string, details map[string]interface{}) {
	m.actions = append(m.actions, action)
}

var _ = Describe("ReviewService", func() {
	var (
		service      *review.Service
		repo         *mockReviewRepo
		publications *mockItemSource
		categories   *mockItemSource
		activity     *mockActivityRecorder
		ctx          context.Context

		owner  auth.Identity
		editor auth.Identity
		author auth.Identity
	)

	BeforeEach(func() {
		repo = newMockReviewRepo()
		publications = newMockItemSource()
		categories = newMockItemSource()
		activity = &mockActivityRecorder{}
		ctx = context.Background()

		owner = auth.Identity{ID: 1, Email: "owner@majalla.example"}
		editor = auth.Identity{ID: 3, Email: "editor@majalla.example"}
		author = auth.Identity{ID: 4, Email: "author@majalla.example"}

		reader := &mockRoleReader{roles: map[int64][]auth.Role{
			editor.ID: {auth.RoleEditor},
			author.ID: {auth.RoleAuthor},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		engine := auth.NewEngine("owner@majalla.example", reader, logger)

		registry := review.NewRegistry()
		registry.Register(review.ItemTypePublication, publications)
		registry.Register(review.ItemTypeCategory, categories)

		service = review.NewService(repo, registry, engine, activity, logger)

		publications.items[100] = "Qasida on the Sea"
		categories.items[7] = "Poetry"
	})

	Describe("DeleteItem", func() {
		Context("when the owner deletes", func() {
			It("should delete immediately and queue nothing", func() {
				outcome, err := service.DeleteItem(ctx, owner, review.ItemTypePublication, 100)

				Expect(err).ToNot(HaveOccurred())
				Expect(outcome.Deleted).To(BeTrue())
				Expect(outcome.Review).To(BeNil())
				Expect(publications.items).ToNot(HaveKey(int64(100)))

				pending, err := service.ListByStatus(ctx, review.StatusPending)
				Expect(err).ToNot(HaveOccurred())
				Expect(pending).To(BeEmpty())
			})
		})

		Context("when an editor deletes", func() {
			It("should leave the item alone and queue one pending review with a snapshot", func() {
				outcome, err := service.DeleteItem(ctx, editor, review.ItemTypePublication, 100)

				Expect(err).ToNot(HaveOccurred())
				Expect(outcome.Deleted).To(BeFalse())
				Expect(outcome.Review).ToNot(BeNil())
				Expect(outcome.Review.Status).To(Equal(review.StatusPending))
				Expect(outcome.Review.RequestedBy).To(Equal(editor.ID))
				Expect(outcome.Review.RequestedByEmail).To(Equal(editor.Email))
				Expect(publications.items).To(HaveKey(int64(100)))

				var snapshot map[string]interface{}
				Expect(json.Unmarshal(outcome.Review.ItemData, &snapshot)).To(Succeed())
				Expect(snapshot["title"]).To(Equal("Qasida on the Sea"))
			})
		})

		Context("when an author deletes", func() {
			It("should deny without queueing anything", func() {
				_, err := service.DeleteItem(ctx, author, review.ItemTypePublication, 100)
				Expect(err).To(Equal(internal.ErrPermissionDenied))

				pending, _ := service.ListByStatus(ctx, review.StatusPending)
				Expect(pending).To(BeEmpty())
			})
		})

		It("should reject unknown item types", func() {
			_, err := service.DeleteItem(ctx, owner, "user", 1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Approve", func() {
		var reviewID int64

		BeforeEach(func() {
			outcome, err := service.DeleteItem(ctx, editor, review.ItemTypePublication, 100)
			Expect(err).ToNot(HaveOccurred())
			reviewID = outcome.Review.ID
			activity.actions = nil
		})

		It("should deny non-owners", func() {
			_, err := service.Approve(ctx, editor, reviewID)
			Expect(err).To(Equal(internal.ErrPermissionDenied))
			Expect(publications.items).To(HaveKey(int64(100)))
		})

		It("should delete the item and resolve the review", func() {
			result, err := service.Approve(ctx, owner, reviewID)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ItemMissing).To(BeFalse())
			Expect(result.Review.Status).To(Equal(review.StatusApproved))
			Expect(result.Review.ResolvedAt).ToNot(BeNil())
			Expect(publications.items).ToNot(HaveKey(int64(100)))
			Expect(activity.actions).To(ContainElement("publication deletion approved by owner"))
		})

		It("should refuse to approve an already resolved review", func() {
			_, err := service.Approve(ctx, owner, reviewID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Approve(ctx, owner, reviewID)
			Expect(err).To(Equal(internal.ErrReviewNotPending))
		})

		It("should approve with a warning when the item is already gone", func() {
			// sibling review for the same item
			sibling, err := service.DeleteItem(ctx, editor, review.ItemTypePublication, 100)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Approve(ctx, owner, reviewID)
			Expect(err).ToNot(HaveOccurred())

			result, err := service.Approve(ctx, owner, sibling.Review.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.ItemMissing).To(BeTrue())
			Expect(result.Review.Status).To(Equal(review.StatusApproved))
		})

		It("should leave the review pending when the delete fails", func() {
			publications.deleteErr = errors.New("disk on fire")

			_, err := service.Approve(ctx, owner, reviewID)
			Expect(err).To(HaveOccurred())

			rec, err := service.ListByStatus(ctx, review.StatusPending)
			Expect(err).ToNot(HaveOccurred())
			Expect(rec).To(HaveLen(1))
		})

		It("should lose cleanly when a concurrent resolution won the swap", func() {
			// simulate the race: another resolution landed between the status
			// re-check and the swap
			repo.reviews[reviewID].Status = review.StatusRejected

			_, err := service.Approve(ctx, owner, reviewID)
			Expect(err).To(Equal(internal.ErrReviewNotPending))
		})

		It("should fail on unknown reviews", func() {
			_, err := service.Approve(ctx, owner, 9999)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeReviewNotFound))
		})
	})

	Describe("Reject", func() {
		var reviewID int64

		BeforeEach(func() {
			outcome, err := service.DeleteItem(ctx, editor, review.ItemTypeCategory, 7)
			Expect(err).ToNot(HaveOccurred())
			reviewID = outcome.Review.ID
			activity.actions = nil
		})

		It("should deny non-owners", func() {
			_, err := service.Reject(ctx, editor, reviewID)
			Expect(err).To(Equal(internal.ErrPermissionDenied))
		})

		It("should resolve the review and keep the item", func() {
			resolved, err := service.Reject(ctx, owner, reviewID)

			Expect(err).ToNot(HaveOccurred())
			Expect(resolved.Status).To(Equal(review.StatusRejected))
			Expect(resolved.ResolvedAt).ToNot(BeNil())
			Expect(categories.items).To(HaveKey(int64(7)))
			Expect(activity.actions).To(ContainElement("category deletion rejected by owner"))
		})

		It("should refuse to reject twice", func() {
			_, err := service.Reject(ctx, owner, reviewID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Reject(ctx, owner, reviewID)
			Expect(err).To(Equal(internal.ErrReviewNotPending))
		})
	})

	Describe("ListByStatus", func() {
		It("should default to pending", func() {
			_, err := service.DeleteItem(ctx, editor, review.ItemTypeCategory, 7)
			Expect(err).ToNot(HaveOccurred())

			reviews, err := service.ListByStatus(ctx, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(reviews).To(HaveLen(1))
			Expect(reviews[0].Status).To(Equal(review.StatusPending))
		})

		It("should reject unknown statuses", func() {
			_, err := service.ListByStatus(ctx, "resolved")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("end to end", func() {
		It("should walk a publication from request to approval", func() {
			outcome, err := service.DeleteItem(ctx, editor, review.ItemTypePublication, 100)
			Expect(err).ToNot(HaveOccurred())
			Expect(outcome.Deleted).To(BeFalse())

			pending, err := service.ListByStatus(ctx, review.StatusPending)
			Expect(err).ToNot(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(fmt.Sprintf("%s/%d", pending[0].ItemType, pending[0].ItemID)).To(Equal("publication/100"))

			result, err := service.Approve(ctx, owner, pending[0].ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Review.Status).To(Equal(review.StatusApproved))
			Expect(publications.items).To(BeEmpty())

			approved, err := service.ListByStatus(ctx, review.StatusApproved)
			Expect(err).ToNot(HaveOccurred())
			Expect(approved).To(HaveLen(1))
		})
	})
})
