package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/almajalla/majalla/internal"
	reviewDatamodel "github.com/almajalla/majalla/internal/core/datamodel/review"
	"github.com/almajalla/majalla/internal/review"
	reviewPostgres "github.com/almajalla/majalla/internal/review/postgres"
)

func TestReviewPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Review Postgres Suite")
}

var _ = Describe("Review Repository", func() {
	var (
		db   *gorm.DB
		repo review.RepositoryAPI
		ctx  context.Context
	)

	newPending := func(itemID int64) *reviewDatamodel.DeletionReview {
		return &reviewDatamodel.DeletionReview{
			ItemType:         review.ItemTypePublication,
			ItemID:           itemID,
			RequestedBy:      3,
			RequestedByEmail: "editor@majalla.example",
			RequestedAt:      time.Now(),
			Status:           review.StatusPending,
		}
	}

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&reviewDatamodel.DeletionReview{})
		Expect(err).NotTo(HaveOccurred())

		repo = reviewPostgres.NewReviewRepository(db)
		ctx = context.Background()
	})

	Describe("Insert and GetByID", func() {
		It("should persist a pending review", func() {
			rec := newPending(100)
			Expect(repo.Insert(ctx, rec)).To(Succeed())
			Expect(rec.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(ctx, rec.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(review.StatusPending))
			Expect(got.ItemID).To(Equal(int64(100)))
		})

		It("should map a missing row to ReviewNotFound", func() {
			_, err := repo.GetByID(ctx, 404)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeReviewNotFound))
		})
	})

	Describe("TransitionStatus", func() {
		It("should swap pending to approved exactly once", func() {
			rec := newPending(100)
			Expect(repo.Insert(ctx, rec)).To(Succeed())

			swapped, err := repo.TransitionStatus(ctx, rec.ID, review.StatusPending, review.StatusApproved, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeTrue())

			// second resolution loses the race
			swapped, err = repo.TransitionStatus(ctx, rec.ID, review.StatusPending, review.StatusRejected, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeFalse())

			got, err := repo.GetByID(ctx, rec.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(review.StatusApproved))
			Expect(got.ResolvedAt).NotTo(BeNil())
		})

		It("should not touch other reviews", func() {
			first := newPending(100)
			second := newPending(200)
			Expect(repo.Insert(ctx, first)).To(Succeed())
			Expect(repo.Insert(ctx, second)).To(Succeed())

			swapped, err := repo.TransitionStatus(ctx, first.ID, review.StatusPending, review.StatusRejected, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeTrue())

			got, err := repo.GetByID(ctx, second.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(review.StatusPending))
		})
	})

	Describe("ListByStatus", func() {
		It("should filter by status in request order", func() {
			first := newPending(100)
			second := newPending(200)
			Expect(repo.Insert(ctx, first)).To(Succeed())
			Expect(repo.Insert(ctx, second)).To(Succeed())

			_, err := repo.TransitionStatus(ctx, first.ID, review.StatusPending, review.StatusApproved, time.Now())
			Expect(err).NotTo(HaveOccurred())

			pending, err := repo.ListByStatus(ctx, review.StatusPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].ItemID).To(Equal(int64(200)))
		})
	})
})
