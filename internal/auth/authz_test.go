package auth_test

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
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// Mock role reader for testing
type mockRoleReader struct {
	roles     map[int64][]auth.Role
	lookupErr error
}

func newMockRoleReader() *mockRoleReader {
	return &mockRoleReader{roles: make(map[int64][]auth.Role)}
}

func (m *mockRoleReader) RolesForUser(ctx context.Context, userID int64) ([]auth.Role, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.roles[userID], nil
}

var _ = Describe("Engine", func() {
	var (
		engine *auth.Engine
		reader *mockRoleReader
		ctx    context.Context

		owner  auth.Identity
		admin  auth.Identity
		editor auth.Identity
		author auth.Identity
		nobody auth.Identity
	)

	BeforeEach(func() {
		reader = newMockRoleReader()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		engine = auth.NewEngine("owner@majalla.example", reader, logger)
		ctx = context.Background()

		owner = auth.Identity{ID: 1, Email: "owner@majalla.example"}
		admin = auth.Identity{ID: 2, Email: "admin@majalla.example"}
		editor = auth.Identity{ID: 3, Email: "editor@majalla.example"}
		author = auth.Identity{ID: 4, Email: "author@majalla.example"}
		nobody = auth.Identity{ID: 5, Email: "reader@majalla.example"}

		reader.roles[admin.ID] = []auth.Role{auth.RoleAdmin}
		reader.roles[editor.ID] = []auth.Role{auth.RoleEditor}
		reader.roles[author.ID] = []auth.Role{auth.RoleAuthor}
	})

	Describe("IsOwner", func() {
		It("should recognize the configured owner email", func() {
			Expect(engine.IsOwner(owner)).To(BeTrue())
		})

		It("should match the owner email case-insensitively", func() {
			Expect(engine.IsOwner(auth.Identity{ID: 1, Email: "OWNER@Majalla.Example"})).To(BeTrue())
		})

		It("should not recognize other identities", func() {
			Expect(engine.IsOwner(admin)).To(BeFalse())
		})

		It("should not recognize an empty email", func() {
			Expect(engine.IsOwner(auth.Identity{ID: 9})).To(BeFalse())
		})
	})

	Describe("HasRole", func() {
		It("should grant the owner every role without touching the store", func() {
			reader.lookupErr = errors.New("store down")

			for _, role := range []auth.Role{auth.RoleAdmin, auth.RoleEditor, auth.RoleAuthor} {
				has, err := engine.HasRole(ctx, owner, role)
				Expect(err).ToNot(HaveOccurred())
				Expect(has).To(BeTrue())
			}
		})

		It("should report a held role", func() {
			has, err := engine.HasRole(ctx, editor, auth.RoleEditor)
			Expect(err).ToNot(HaveOccurred())
			Expect(has).To(BeTrue())
		})

		It("should report a missing role", func() {
			has, err := engine.HasRole(ctx, editor, auth.RoleAdmin)
			Expect(err).ToNot(HaveOccurred())
			Expect(has).To(BeFalse())
		})

		It("should deny and surface StoreUnavailable when the lookup fails", func() {
			reader.lookupErr = errors.New("connection refused")

			has, err := engine.HasRole(ctx, admin, auth.RoleAdmin)
			Expect(has).To(BeFalse())
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeStoreUnavailable))
		})
	})

	Describe("CanAccessAdminSection", func() {
		It("should always admit the owner", func() {
			allowed, err := engine.CanAccessAdminSection(ctx, owner, auth.RoleAdmin)
			Expect(err).ToNot(HaveOccurred())
			Expect(allowed).To(BeTrue())
		})

		It("should admit any of the required roles", func() {
			allowed, err := engine.CanAccessAdminSection(ctx, editor, auth.RoleAdmin, auth.RoleEditor)
			Expect(err).ToNot(HaveOccurred())
			Expect(allowed).To(BeTrue())
		})

		It("should deny identities without any required role", func() {
			allowed, err := engine.CanAccessAdminSection(ctx, author, auth.RoleAdmin, auth.RoleEditor)
			Expect(err).ToNot(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})

		It("should deny everyone but the owner when no roles are required", func() {
			allowed, err := engine.CanAccessAdminSection(ctx, admin)
			Expect(err).ToNot(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})

		It("should fail closed on store errors", func() {
			reader.lookupErr = errors.New("timeout")

			allowed, err := engine.CanAccessAdminSection(ctx, admin, auth.RoleAdmin)
			Expect(allowed).To(BeFalse())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CanDeleteInstantly", func() {
		It("should admit only the owner", func() {
			Expect(engine.CanDeleteInstantly(owner)).To(BeTrue())
			Expect(engine.CanDeleteInstantly(admin)).To(BeFalse())
			Expect(engine.CanDeleteInstantly(editor)).To(BeFalse())
		})
	})

	Describe("CanGrantRole", func() {
		It("should allow the owner to grant any role", func() {
			for _, role := range []auth.Role{auth.RoleAdmin, auth.RoleEditor, auth.RoleAuthor} {
				allowed, err := engine.CanGrantRole(ctx, owner, role)
				Expect(err).ToNot(HaveOccurred())
				Expect(allowed).To(BeTrue())
			}
		})

		It("should forbid a non-owner admin from granting admin", func() {
			allowed, err := engine.CanGrantRole(ctx, admin, auth.RoleAdmin)
			Expect(err).ToNot(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})

		It("should allow an admin to grant editor and author", func() {
			for _, role := range []auth.Role{auth.RoleEditor, auth.RoleAuthor} {
				allowed, err := engine.CanGrantRole(ctx, admin, role)
				Expect(err).ToNot(HaveOccurred())
				Expect(allowed).To(BeTrue())
			}
		})

		It("should allow an editor to grant author", func() {
			allowed, err := engine.CanGrantRole(ctx, editor, auth.RoleAuthor)
			Expect(err).ToNot(HaveOccurred())
			Expect(allowed).To(BeTrue())
		})

		It("should forbid an author from granting anything", func() {
			for _, role := range []auth.Role{auth.RoleAdmin, auth.RoleEditor, auth.RoleAuthor} {
				allowed, err := engine.CanGrantRole(ctx, author, role)
				Expect(err).ToNot(HaveOccurred())
				Expect(allowed).To(BeFalse())
			}
		})

		It("should forbid role-less identities from granting anything", func() {
			allowed, err := engine.CanGrantRole(ctx, nobody, auth.RoleAuthor)
			Expect(err).ToNot(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})
	})
})
