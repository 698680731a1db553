package publication

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
	ListPublished(ctx context.Context, params ListParams) ([]*Publication, error)
	ListAll(ctx context.Context, params ListParams) ([]*Publication, error)
	GetByID(ctx context.Context, id int64) (*Publication, error)
	GetBySlug(ctx context.Context, slug string) (*Publication, error)
	CreatePublication(ctx context.Context, actor auth.Identity, dto *CreatePublicationDTO) (*Publication, error)
	UpdatePublication(ctx context.Context, actor auth.Identity, id int64, dto *UpdatePublicationDTO) (*Publication, error)
	Publish(ctx context.Context, actor auth.Identity, id int64) (*Publication, error)
	Unpublish(ctx context.Context, actor auth.Identity, id int64) (*Publication, error)
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

func listParamsFromQuery(r *http.Request) ListParams {
	params := ListParams{
		Search: r.URL.Query().Get("q"),
	}
	if categoryID, err := strconv.ParseInt(r.URL.Query().Get("category_id"), 10, 64); err == nil {
		params.CategoryID = categoryID
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		params.Offset = offset
	}
	return params
}

// PublicList handles GET /publications
func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	publications, err := h.Service.ListPublished(r.Context(), listParamsFromQuery(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"publications": publications})
}

// GetBySlug handles GET /publications/{slug}
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	pub, err := h.Service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, pub)
}

// AdminList handles GET /admin/publications
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	publications, err := h.Service.ListAll(r.Context(), listParamsFromQuery(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"publications": publications})
}

// GetByID handles GET /admin/publications/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid publication id")
		return
	}

	pub, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, pub)
}

// Create handles POST /admin/publications
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreatePublicationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pub, err := h.Service.CreatePublication(r.Context(), actor, &dto)
	if err != nil {
		h.Logger.Warn("publication create failed", "slug", dto.Slug, "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, pub)
}

// Update handles PUT /admin/publications/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid publication id")
		return
	}

	var dto UpdatePublicationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pub, err := h.Service.UpdatePublication(r.Context(), actor, id, &dto)
	if err != nil {
		h.Logger.Warn("publication update failed", "publication_id", id, "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, pub)
}

// Publish handles POST /admin/publications/{id}/publish
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

// Unpublish handles POST /admin/publications/{id}/unpublish
func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *Handler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid publication id")
		return
	}

	var pub *Publication
	if published {
		pub, err = h.Service.Publish(r.Context(), actor, id)
	} else {
		pub, err = h.Service.Unpublish(r.Context(), actor, id)
	}
	if err != nil {
		h.Logger.Warn("publication publish state change failed", "publication_id", id, "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, pub)
}
