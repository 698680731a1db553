package comment_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	"github.com/almajalla/majalla/internal/comment"
	commentDatamodel "github.com/almajalla/majalla/internal/core/datamodel/comment"
)

func TestComment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Comment Suite")
}

// Mock comment repository for testing
type mockCommentRepo struct {
	comments map[int64]*commentDatamodel.Comment
	nextID   int64
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{
		comments: make(map[int64]*commentDatamodel.Comment),
		nextID:   1,
	}
}

func (m *mockCommentRepo) Create(ctx context.Context, rec *commentDatamodel.Comment) error {
	rec.ID = m.nextID
	m.nextID++
	clone := *rec
	m.comments[rec.ID] = &clone
	return nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*commentDatamodel.Comment, error) {
	rec, ok := m.comments[id]
	if !ok {
		return nil, internal.ErrCommentNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *mockCommentRepo) ListByPublication(ctx context.Context, publicationID int64, status string) ([]*commentDatamodel.Comment, error) {
	var out []*commentDatamodel.Comment
	for _, rec := range m.comments {
		if rec.PublicationID != publicationID {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		clone := *rec
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockCommentRepo) ListByMinReports(ctx context.Context, minReports int) ([]*commentDatamodel.Comment, error) {
	var out []*commentDatamodel.Comment
	for _, rec := range m.comments {
		if rec.ReportCount >= minReports {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockCommentRepo) IncrementLikes(ctx context.Context, id int64) error {
	m.comments[id].Likes++
	return nil
}

func (m *mockCommentRepo) IncrementReports(ctx context.Context, id int64) (int, error) {
	m.comments[id].ReportCount++
	return m.comments[id].ReportCount, nil
}

func (m *mockCommentRepo) SetStatus(ctx context.Context, id int64, status string) error {
	m.comments[id].Status = status
	return nil
}

type mockPublicationChecker struct {
	published map[int64]bool
}

func (m *mockPublicationChecker) IsPublished(ctx context.Context, publicationID int64) (bool, error) {
	published, ok := m.published[publicationID]
	if !ok {
		return false, internal.ErrPublicationNotFound
	}
	return published, nil
}

type mockActivityRecorder struct {
	actions []string
}

func (m *mockActivityRecorder) Record(ctx context.Context, actor auth.Identity, actorRole string, action string, details map[string]interface{}) {
	m.actions = append(m.actions, action)
}

var _ = Describe("CommentService", func() {
	var (
		service      *comment.Service
		repo         *mockCommentRepo
		publications *mockPublicationChecker
		activity     *mockActivityRecorder
		ctx          context.Context
		moderator    auth.Identity
	)

	post := func() *comment.Comment {
		c, err := service.Create(ctx, &comment.CreateCommentDTO{
			PublicationID: 100,
			AuthorName:    "Reader",
			Body:          "لغة جميلة",
		})
		Expect(err).ToNot(HaveOccurred())
		return c
	}

	BeforeEach(func() {
		repo = newMockCommentRepo()
		publications = &mockPublicationChecker{published: map[int64]bool{100: true, 200: false}}
		activity = &mockActivityRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = comment.NewService(repo, publications, activity, 3, logger)
		ctx = context.Background()
		moderator = auth.Identity{ID: 3, Email: "editor@majalla.example"}
	})

	Describe("Create", func() {
		It("should post a visible comment on a published publication", func() {
			c := post()
			Expect(c.Status).To(Equal(comment.StatusVisible))
			Expect(c.ID).To(BeNumerically(">", 0))
		})

		It("should refuse comments on drafts", func() {
			_, err := service.Create(ctx, &comment.CreateCommentDTO{
				PublicationID: 200,
				AuthorName:    "Reader",
				Body:          "first",
			})
			Expect(err).To(Equal(internal.ErrPublicationNotFound))
		})

		It("should refuse comments on unknown publications", func() {
			_, err := service.Create(ctx, &comment.CreateCommentDTO{
				PublicationID: 404,
				AuthorName:    "Reader",
				Body:          "hello",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should require a body", func() {
			_, err := service.Create(ctx, &comment.CreateCommentDTO{
				PublicationID: 100,
				AuthorName:    "Reader",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Report", func() {
		It("should auto-hide once reports reach the threshold", func() {
			c := post()

			Expect(service.Report(ctx, c.ID)).To(Succeed())
			Expect(service.Report(ctx, c.ID)).To(Succeed())
			Expect(repo.comments[c.ID].Status).To(Equal(comment.StatusVisible))

			Expect(service.Report(ctx, c.ID)).To(Succeed())
			Expect(repo.comments[c.ID].Status).To(Equal(comment.StatusHidden))
		})

		It("should list reported comments for moderation", func() {
			c := post()
			post()

			Expect(service.Report(ctx, c.ID)).To(Succeed())

			reported, err := service.ListReported(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(reported).To(HaveLen(1))
			Expect(reported[0].ID).To(Equal(c.ID))
		})
	})

	Describe("Moderation", func() {
		It("should hide and restore comments, recording activity", func() {
			c := post()

			Expect(service.Hide(ctx, moderator, c.ID)).To(Succeed())
			Expect(repo.comments[c.ID].Status).To(Equal(comment.StatusHidden))

			Expect(service.Restore(ctx, moderator, c.ID)).To(Succeed())
			Expect(repo.comments[c.ID].Status).To(Equal(comment.StatusVisible))

			Expect(activity.actions).To(Equal([]string{"comment hidden", "comment restored"}))
		})

		It("should treat a redundant hide as a no-op", func() {
			c := post()

			Expect(service.Hide(ctx, moderator, c.ID)).To(Succeed())
			Expect(service.Hide(ctx, moderator, c.ID)).To(Succeed())
			Expect(activity.actions).To(HaveLen(1))
		})
	})

	Describe("ListVisible", func() {
		It("should exclude hidden comments", func() {
			first := post()
			post()

			Expect(service.Hide(ctx, moderator, first.ID)).To(Succeed())

			visible, err := service.ListVisible(ctx, 100)
			Expect(err).ToNot(HaveOccurred())
			Expect(visible).To(HaveLen(1))
		})
	})

	Describe("Like", func() {
		It("should bump the counter", func() {
			c := post()

			Expect(service.Like(ctx, c.ID)).To(Succeed())
			Expect(service.Like(ctx, c.ID)).To(Succeed())
			Expect(repo.comments[c.ID].Likes).To(Equal(2))
		})

		It("should fail for unknown comments", func() {
			err := service.Like(ctx, 404)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCommentNotFound))
		})
	})
})
