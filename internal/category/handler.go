package category

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/almajalla/majalla/internal/auth"
	"github.com/almajalla/majalla/internal/transport"
	"github.com/almajalla/majalla/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAllCategories(ctx context.Context) ([]*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	CreateCategory(ctx context.Context, actor auth.Identity, dto *CreateCategoryDTO) (*Category, error)
	UpdateCategory(ctx context.Context, actor auth.Identity, id int64, dto *UpdateCategoryDTO) (*Category, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// PublicList handles GET /categories
func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.GetAllCategories(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// AdminList handles GET /admin/categories
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.ListCategories(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// GetByID handles GET /admin/categories/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	cat, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, cat)
}

// Create handles POST /admin/categories
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Service.CreateCategory(r.Context(), actor, &dto)
	if err != nil {
		h.Logger.Warn("category create failed", "slug", dto.Slug, "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, cat)
}

// Update handles PUT /admin/categories/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var dto UpdateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Service.UpdateCategory(r.Context(), actor, id, &dto)
	if err != nil {
		h.Logger.Warn("category update failed", "category_id", id, "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, cat)
}
