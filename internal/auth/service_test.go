package auth_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/almajalla/majalla/internal/auth"
)

// Mock credentials repository for testing
type mockCredsRepo struct {
	passwordHash string
	userID       int64
	identity     auth.Identity
	lookupErr    error
	identityErr  error
}

func (m *mockCredsRepo) GetPasswordForEmail(email string) (string, int64, error) {
	if m.lookupErr != nil {
		return "", 0, m.lookupErr
	}
	return m.passwordHash, m.userID, nil
}

func (m *mockCredsRepo) GetIdentityByID(userID int64) (auth.Identity, error) {
	if m.identityErr != nil {
		return auth.Identity{}, m.identityErr
	}
	return m.identity, nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		creds    *mockCredsRepo
		tokenGen *auth.JWTTokenGenerator
	)

	BeforeEach(func() {
		hash, err := auth.HashPassword("correct-horse", 10)
		Expect(err).ToNot(HaveOccurred())

		creds = &mockCredsRepo{
			passwordHash: hash,
			userID:       42,
			identity:     auth.Identity{ID: 42, Email: "layla@majalla.example"},
		}
		tokenGen = auth.NewJWTTokenGenerator(
			"access-secret-for-tests-0123456789ab",
			"refresh-secret-for-tests-0123456789a",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(creds, tokenGen, 10)
	})

	Describe("Authenticate", func() {
		It("should return a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "layla@majalla.example",
				Password: "correct-horse",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "layla@majalla.example",
				Password: "wrong",
			})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown email without leaking the reason", func() {
			creds.lookupErr = errors.New("no rows")

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "ghost@majalla.example",
				Password: "correct-horse",
			})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject empty credentials", func() {
			_, err := service.Authenticate(auth.LoginDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Token validation", func() {
		It("should round-trip the claims through an access token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "layla@majalla.example",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(42)))
			Expect(claims.Email).To(Equal("layla@majalla.example"))
		})

		It("should reject garbage tokens", func() {
			_, err := service.ValidateAccessToken("not-a-token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("should issue a fresh pair from a refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "layla@majalla.example",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			renewed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(renewed.AccessToken).ToNot(BeEmpty())

			claims, err := service.ValidateAccessToken(renewed.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(42)))
		})
	})
})
