package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/almajalla/majalla/internal/activitylog"
	"github.com/almajalla/majalla/internal/auth"
	"github.com/almajalla/majalla/internal/category"
	"github.com/almajalla/majalla/internal/comment"
	"github.com/almajalla/majalla/internal/publication"
	"github.com/almajalla/majalla/internal/review"
	"github.com/almajalla/majalla/internal/roles"
	"github.com/almajalla/majalla/internal/transport/middleware"
	"github.com/almajalla/majalla/internal/transport/swagger"
	"github.com/almajalla/majalla/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Category    *category.Handler
	Publication *publication.Handler
	Comment     *comment.Handler
	Roles       *roles.Handler
	Review      *review.Handler
	Activity    *activitylog.Handler
}

// RegisterAllRoutes mounts the public site API and the admin console.
// Content management is open to admins and editors, user management to
// admins, and the deletion review console to the owner alone.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, rbac *auth.RBACAuthorization, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Public site routes (no auth required)
		r.Get("/categories", h.Category.PublicList)
		r.Get("/publications", h.Publication.PublicList)
		r.Get("/publications/{slug}", h.Publication.GetBySlug)
		r.Get("/publications/{id}/comments", h.Comment.ListByPublication)
		r.Post("/comments", h.Comment.Create)
		r.Post("/comments/{id}/like", h.Comment.Like)
		r.Post("/comments/{id}/report", h.Comment.Report)

		// Authenticated routes
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.Me)

			pr.Route("/admin", func(ar chi.Router) {
				// Content management: admins and editors
				ar.Group(func(cr chi.Router) {
					cr.Use(rbac.RequireRoles(auth.RoleAdmin, auth.RoleEditor))

					cr.Route("/categories", func(sr chi.Router) {
						sr.Get("/", h.Category.AdminList)
						sr.Post("/", h.Category.Create)
						sr.Get("/{id}", h.Category.GetByID)
						sr.Put("/{id}", h.Category.Update)
						sr.Delete("/{id}", h.Review.DeleteItemHandler(review.ItemTypeCategory))
					})

					cr.Route("/publications", func(sr chi.Router) {
						sr.Get("/", h.Publication.AdminList)
						sr.Post("/", h.Publication.Create)
						sr.Get("/{id}", h.Publication.GetByID)
						sr.Put("/{id}", h.Publication.Update)
						sr.Post("/{id}/publish", h.Publication.Publish)
						sr.Post("/{id}/unpublish", h.Publication.Unpublish)
						sr.Delete("/{id}", h.Review.DeleteItemHandler(review.ItemTypePublication))
					})

					cr.Route("/comments", func(sr chi.Router) {
						sr.Get("/reported", h.Comment.ListReported)
						sr.Post("/{id}/hide", h.Comment.Hide)
						sr.Post("/{id}/restore", h.Comment.Restore)
					})

					cr.Get("/activity", h.Activity.List)
				})

				// User management: admins only
				ar.Group(func(ur chi.Router) {
					ur.Use(rbac.RequireRoles(auth.RoleAdmin))

					ur.Get("/users", h.User.List)
					ur.Post("/users", h.User.Create)
					ur.Put("/users/{userID}/active", h.User.SetActive)
				})

				// Role management: admins and editors reach the endpoints;
				// which roles each actor may grant is enforced in the service
				ar.Group(func(rr chi.Router) {
					rr.Use(rbac.RequireRoles(auth.RoleAdmin, auth.RoleEditor))

					rr.Post("/roles", h.Roles.GrantRole)
					rr.Get("/users/{userID}/roles", h.Roles.UserRoles)
					rr.Delete("/users/{userID}/roles/{role}", h.Roles.RevokeRole)
				})

				// Deletion review console: owner only
				ar.Group(func(or chi.Router) {
					or.Use(rbac.RequireOwner())

					or.Get("/reviews", h.Review.ListReviews)
					or.Post("/reviews/{id}/approve", h.Review.Approve)
					or.Post("/reviews/{id}/reject", h.Review.Reject)
				})
			})
		})
	})
}
