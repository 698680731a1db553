package roles_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	"github.com/almajalla/majalla/internal/roles"
)

func TestRoles(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Roles Suite")
}

// Mock role repository; also serves as the engine's role reader so the
// tests exercise the same store both paths hit in production.
type mockRoleRepo struct {
	assignments map[int64][]auth.Role
	insertErr   error
	deleteErr   error
	lookupErr   error
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{assignments: make(map[int64][]auth.Role)}
}

func (m *mockRoleRepo) Insert(ctx context.Context, userID int64, role auth.Role, grantedBy *int64) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.assignments[userID] = append(m.assignments[userID], role)
	return nil
}

func (m *mockRoleRepo) DeleteAll(ctx context.Context, userID int64, role auth.Role) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	kept := m.assignments[userID][:0]
	for _, r := range m.assignments[userID] {
		if r != role {
			kept = append(kept, r)
		}
	}
	m.assignments[userID] = kept
	return nil
}

func (m *mockRoleRepo) RolesForUser(ctx context.Context, userID int64) ([]auth.Role, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.assignments[userID], nil
}

type mockUserResolver struct {
	idsByEmail map[string]int64
}

func (m *mockUserResolver) IDByEmail(ctx context.Context, email string) (int64, error) {
	id, ok := m.idsByEmail[email]
	if !ok {
		return 0, internal.ErrUserNotFound
	}
	return id, nil
}

type recordedActivity struct {
	Actor  auth.Identity
	Role   string
	Action string
}

type mockActivityRecorder struct {
	records []recordedActivity
}

func (m *mockActivityRecorder) Record(ctx context.Context, actor auth.Identity, actorRole string, action string, details map[string]interface{}) {
	m.records = append(m.records, recordedActivity{Actor: actor, Role: actorRole, Action: action})
}

var _ = Describe("RolesService", func() {
	var (
		service  *roles.Service
		repo     *mockRoleRepo
		users    *mockUserResolver
		activity *mockActivityRecorder
		ctx      context.Context

		owner  auth.Identity
		admin  auth.Identity
		editor auth.Identity
	)

	BeforeEach(func() {
		repo = newMockRoleRepo()
		users = &mockUserResolver{idsByEmail: map[string]int64{
			"samir@majalla.example": 10,
			"admin@majalla.example": 2,
		}}
		activity = &mockActivityRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		engine := auth.NewEngine("owner@majalla.example", repo, logger)
		service = roles.NewService(repo, users, engine, activity, logger)
		ctx = context.Background()

		owner = auth.Identity{ID: 1, Email: "owner@majalla.example"}
		admin = auth.Identity{ID: 2, Email: "admin@majalla.example"}
		editor = auth.Identity{ID: 3, Email: "editor@majalla.example"}

		repo.assignments[admin.ID] = []auth.Role{auth.RoleAdmin}
		repo.assignments[editor.ID] = []auth.Role{auth.RoleEditor}
	})

	Describe("Grant", func() {
		It("should let the owner grant admin", func() {
			err := service.Grant(ctx, owner, "samir@majalla.example", auth.RoleAdmin)
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.assignments[10]).To(ContainElement(auth.RoleAdmin))
		})

		It("should refuse a non-owner admin granting admin", func() {
			err := service.Grant(ctx, admin, "samir@majalla.example", auth.RoleAdmin)
			Expect(err).To(Equal(internal.ErrPermissionDenied))
			Expect(repo.assignments[10]).To(BeEmpty())
		})

		It("should let an editor grant author", func() {
			err := service.Grant(ctx, editor, "samir@majalla.example", auth.RoleAuthor)
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.assignments[10]).To(ContainElement(auth.RoleAuthor))
		})

		It("should fail with UserNotFound for an unknown target email", func() {
			err := service.Grant(ctx, owner, "ghost@majalla.example", auth.RoleEditor)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUserNotFound))
		})

		It("should skip a redundant grant without error", func() {
			Expect(service.Grant(ctx, owner, "samir@majalla.example", auth.RoleAuthor)).To(Succeed())
			Expect(service.Grant(ctx, owner, "samir@majalla.example", auth.RoleAuthor)).To(Succeed())
			Expect(repo.assignments[10]).To(HaveLen(1))
		})

		It("should record the grant in the activity log", func() {
			Expect(service.Grant(ctx, owner, "samir@majalla.example", auth.RoleAuthor)).To(Succeed())
			Expect(activity.records).To(HaveLen(1))
			Expect(activity.records[0].Action).To(Equal("role granted"))
			Expect(activity.records[0].Role).To(Equal("owner"))
		})

		It("should surface StoreUnavailable on insert failures", func() {
			repo.insertErr = errors.New("connection reset")

			err := service.Grant(ctx, owner, "samir@majalla.example", auth.RoleAuthor)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeStoreUnavailable))
		})
	})

	Describe("Revoke", func() {
		It("should remove every matching row including duplicates", func() {
			repo.assignments[10] = []auth.Role{auth.RoleAuthor, auth.RoleAuthor, auth.RoleEditor}

			err := service.Revoke(ctx, owner, 10, auth.RoleAuthor)
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.assignments[10]).To(Equal([]auth.Role{auth.RoleEditor}))
		})

		It("should refuse a non-owner revoking admin", func() {
			err := service.Revoke(ctx, admin, editor.ID, auth.RoleAdmin)
			Expect(err).To(Equal(internal.ErrPermissionDenied))
		})

		It("should record the revoke in the activity log", func() {
			repo.assignments[10] = []auth.Role{auth.RoleAuthor}

			Expect(service.Revoke(ctx, owner, 10, auth.RoleAuthor)).To(Succeed())
			Expect(activity.records).To(HaveLen(1))
			Expect(activity.records[0].Action).To(Equal("role revoked"))
		})
	})

	Describe("RolesForUser", func() {
		It("should de-duplicate repeated grants preserving order", func() {
			repo.assignments[10] = []auth.Role{auth.RoleEditor, auth.RoleAuthor, auth.RoleEditor}

			held, err := service.RolesForUser(ctx, 10)
			Expect(err).ToNot(HaveOccurred())
			Expect(held).To(Equal([]auth.Role{auth.RoleEditor, auth.RoleAuthor}))
		})

		It("should surface StoreUnavailable on lookup failures", func() {
			repo.lookupErr = errors.New("timeout")

			_, err := service.RolesForUser(ctx, 10)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeStoreUnavailable))
		})
	})
})
