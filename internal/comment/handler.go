package comment

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
	Create(ctx context.Context, dto *CreateCommentDTO) (*Comment, error)
	ListVisible(ctx context.Context, publicationID int64) ([]*Comment, error)
	Like(ctx context.Context, id int64) error
	Report(ctx context.Context, id int64) error
	Hide(ctx context.Context, actor auth.Identity, id int64) error
	Restore(ctx context.Context, actor auth.Identity, id int64) error
	ListReported(ctx context.Context) ([]*Comment, error)
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

// Create handles POST /comments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(r.Context(), &dto)
	if err != nil {
		h.Logger.Warn("comment create failed", "publication_id", dto.PublicationID, "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

// ListByPublication handles GET /publications/{id}/comments
func (h *Handler) ListByPublication(w http.ResponseWriter, r *http.Request) {
	publicationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid publication id")
		return
	}

	comments, err := h.Service.ListVisible(r.Context(), publicationID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// Like handles POST /comments/{id}/like
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.Service.Like(r.Context(), id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "liked"})
}

// Report handles POST /comments/{id}/report
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.Service.Report(r.Context(), id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "reported"})
}

// ListReported handles GET /admin/comments/reported
func (h *Handler) ListReported(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Service.ListReported(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// Hide handles POST /admin/comments/{id}/hide
func (h *Handler) Hide(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, true)
}

// Restore handles POST /admin/comments/{id}/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, false)
}

func (h *Handler) moderate(w http.ResponseWriter, r *http.Request, hide bool) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	if hide {
		err = h.Service.Hide(r.Context(), actor, id)
	} else {
		err = h.Service.Restore(r.Context(), actor, id)
	}
	if err != nil {
		h.Logger.Warn("comment moderation failed", "comment_id", id, "error", err)
		h.WriteAppError(w, err)
		return
	}

	status := "hidden"
	if !hide {
		status = "visible"
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
}
