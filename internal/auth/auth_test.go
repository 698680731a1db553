package auth_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/almajalla/majalla/internal/auth"
)

var _ = Describe("ParseRole", func() {
	It("should accept every known role", func() {
		for _, role := range auth.AllRoles {
			parsed, ok := auth.ParseRole(string(role))
			Expect(ok).To(BeTrue())
			Expect(parsed).To(Equal(role))
		}
	})

	It("should reject owner, which is an identity rather than a role", func() {
		_, ok := auth.ParseRole("owner")
		Expect(ok).To(BeFalse())
	})

	It("should reject unknown strings", func() {
		_, ok := auth.ParseRole("superuser")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Identity context", func() {
	It("should round-trip an identity through the request context", func() {
		id := auth.Identity{ID: 7, Email: "editor@majalla.example"}
		ctx := auth.ContextWithIdentity(context.Background(), id)

		got, ok := auth.IdentityFromContext(ctx)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal(id))
	})

	It("should report absence on a bare context", func() {
		_, ok := auth.IdentityFromContext(context.Background())
		Expect(ok).To(BeFalse())
	})
})
