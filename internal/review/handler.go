package review

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	"github.com/almajalla/majalla/internal/transport"
	"github.com/almajalla/majalla/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	DeleteItem(ctx context.Context, actor auth.Identity, itemType string, itemID int64) (*DeleteOutcome, error)
	Approve(ctx context.Context, actor auth.Identity, reviewID int64) (*ApprovalResult, error)
	Reject(ctx context.Context, actor auth.Identity, reviewID int64) (*Review, error)
	ListByStatus(ctx context.Context, status string) ([]*Review, error)
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

// ListReviews handles GET /admin/reviews?status=pending
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Service.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}

// Approve handles POST /admin/reviews/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	result, err := h.Service.Approve(r.Context(), actor, reviewID)
	if err != nil {
		h.Logger.Warn("review approval failed", "review_id", reviewID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	resp := map[string]interface{}{"review": result.Review}
	if result.ItemMissing {
		resp["warning"] = string(internal.ErrCodeItemAlreadyDeleted)
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Reject handles POST /admin/reviews/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	resolved, err := h.Service.Reject(r.Context(), actor, reviewID)
	if err != nil {
		h.Logger.Warn("review rejection failed", "review_id", reviewID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"review": resolved})
}

// DeleteItemHandler builds the DELETE handler shared by the category and
// publication admin routes. Owners get an immediate delete; everyone else
// privileged gets a queued review and a 202.
func (h *Handler) DeleteItemHandler(itemType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			h.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid item id")
			return
		}

		outcome, err := h.Service.DeleteItem(r.Context(), actor, itemType, itemID)
		if err != nil {
			h.Logger.Warn("delete failed", "item_type", itemType, "item_id", itemID, "error", err)
			h.WriteAppError(w, err)
			return
		}

		if outcome.Deleted {
			h.WriteJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
			return
		}
		h.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
			"deleted": false,
			"review":  outcome.Review,
		})
	}
}
