package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/almajalla/majalla/internal"
	"github.com/almajalla/majalla/internal/auth"
	reviewDatamodel "github.com/almajalla/majalla/internal/core/datamodel/review"
	"gorm.io/datatypes"
)

// Service runs the deletion governance: owners delete instantly, other
// privileged users queue a review the owner later approves or rejects.
type Service struct {
	repo     RepositoryAPI
	items    *Registry
	engine   *auth.Engine
	activity ActivityRecorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, items *Registry, engine *auth.Engine, activity ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		items:    items,
		engine:   engine,
		activity: activity,
		logger:   logger,
	}
}

// DeleteOutcome tells the caller whether the item is gone or a review was
// queued in its place.
type DeleteOutcome struct {
	Deleted bool    `json:"deleted"`
	Review  *Review `json:"review,omitempty"`
}

// DeleteItem is the single entry point for destructive actions on
// categories and publications. The owner bypasses the queue entirely; a
// non-owner admin/editor gets a pending review instead of an error.
func (s *Service) DeleteItem(ctx context.Context, actor auth.Identity, itemType string, itemID int64) (*DeleteOutcome, error) {
	if !ValidItemType(itemType) {
		return nil, internal.NewValidationError("unknown item type", internal.ErrCodeInvalidItemType)
	}

	if s.engine.CanDeleteInstantly(actor) {
		src, err := s.items.source(itemType)
		if err != nil {
			return nil, err
		}
		if err := src.Delete(ctx, itemID); err != nil {
			s.logger.ErrorContext(ctx, "instant delete failed",
				"item_type", itemType,
				"item_id", itemID,
				"error", err)
			return nil, err
		}

		s.logger.InfoContext(ctx, "item deleted instantly by owner",
			"item_type", itemType,
			"item_id", itemID)

		s.activity.Record(ctx, actor, "owner", fmt.Sprintf("%s deleted by owner", itemType), map[string]interface{}{
			"item_type": itemType,
			"item_id":   itemID,
		})
		return &DeleteOutcome{Deleted: true}, nil
	}

	rec, err := s.RequestDeletion(ctx, actor, itemType, itemID)
	if err != nil {
		return nil, err
	}
	return &DeleteOutcome{Deleted: false, Review: rec}, nil
}

// RequestDeletion snapshots the item and queues a pending review. The item
// itself is untouched. Two concurrent requests for one item may both queue;
// siblings resolve cleanly at approval time.
func (s *Service) RequestDeletion(ctx context.Context, actor auth.Identity, itemType string, itemID int64) (*Review, error) {
	if !ValidItemType(itemType) {
		return nil, internal.NewValidationError("unknown item type", internal.ErrCodeInvalidItemType)
	}

	allowed, err := s.engine.CanAccessAdminSection(ctx, actor, auth.RoleAdmin, auth.RoleEditor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.logger.WarnContext(ctx, "deletion request denied",
			"actor_id", actor.ID,
			"item_type", itemType,
			"item_id", itemID)
		return nil, internal.ErrPermissionDenied
	}

	src, err := s.items.source(itemType)
	if err != nil {
		return nil, err
	}

	snapshot, err := src.Snapshot(ctx, itemID)
	if err != nil {
		s.logger.ErrorContext(ctx, "item snapshot failed",
			"item_type", itemType,
			"item_id", itemID,
			"error", err)
		return nil, err
	}

	rec := &reviewDatamodel.DeletionReview{
		ItemType:         itemType,
		ItemID:           itemID,
		ItemData:         datatypes.JSON(snapshot),
		RequestedBy:      actor.ID,
		RequestedByEmail: actor.Email,
		RequestedAt:      time.Now(),
		Status:           StatusPending,
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "review insert failed",
			"item_type", itemType,
			"item_id", itemID,
			"error", err)
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}

	s.logger.InfoContext(ctx, "deletion review queued",
		"review_id", rec.ID,
		"item_type", itemType,
		"item_id", itemID,
		"requested_by", actor.ID)

	s.activity.Record(ctx, actor, "", fmt.Sprintf("%s deletion requested", itemType), map[string]interface{}{
		"review_id": rec.ID,
		"item_type": itemType,
		"item_id":   itemID,
	})
	return FromDataModel(rec), nil
}

// ApprovalResult carries the resolved review plus whether the underlying
// item had already vanished (the review is approved either way).
type ApprovalResult struct {
	Review      *Review `json:"review"`
	ItemMissing bool    `json:"item_missing,omitempty"`
}

// Approve deletes the underlying item and then resolves the review. Owner
// only. The delete-then-mark sequence is not atomic against the remote
// store; the status transition is a compare-and-swap on pending so a racing
// sibling resolution loses cleanly rather than double-applying.
func (s *Service) Approve(ctx context.Context, actor auth.Identity, reviewID int64) (*ApprovalResult, error) {
	if !s.engine.IsOwner(actor) {
		s.logger.WarnContext(ctx, "review approval denied: owner required", "actor_id", actor.ID, "review_id", reviewID)
		return nil, internal.ErrPermissionDenied
	}

	rec, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	// re-check immediately before mutating
	if rec.Status != StatusPending {
		s.logger.WarnContext(ctx, "approve on resolved review", "review_id", reviewID, "status", rec.Status)
		return nil, internal.ErrReviewNotPending
	}

	src, err := s.items.source(rec.ItemType)
	if err != nil {
		return nil, err
	}

	itemMissing := false
	if err := src.Delete(ctx, rec.ItemID); err != nil {
		if IsNotFound(err) {
			// already deleted elsewhere (owner bypass, or an approved
			// sibling review); the deletion intent is satisfied, so the
			// review still resolves to approved
			itemMissing = true
			s.logger.WarnContext(ctx, "underlying item already gone, approving anyway",
				"review_id", reviewID,
				"item_type", rec.ItemType,
				"item_id", rec.ItemID)
		} else {
			s.logger.ErrorContext(ctx, "item delete failed, review stays pending",
				"review_id", reviewID,
				"item_type", rec.ItemType,
				"item_id", rec.ItemID,
				"error", err)
			return nil, err
		}
	}

	transitioned, err := s.repo.TransitionStatus(ctx, reviewID, StatusPending, StatusApproved, time.Now())
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}
	if !transitioned {
		// lost the race to a concurrent resolution
		return nil, internal.ErrReviewNotPending
	}

	s.logger.InfoContext(ctx, "deletion review approved",
		"review_id", reviewID,
		"item_type", rec.ItemType,
		"item_id", rec.ItemID,
		"item_missing", itemMissing)

	s.activity.Record(ctx, actor, "owner", fmt.Sprintf("%s deletion approved by owner", rec.ItemType), map[string]interface{}{
		"review_id": reviewID,
		"item_type": rec.ItemType,
		"item_id":   rec.ItemID,
	})

	resolved, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return &ApprovalResult{Review: FromDataModel(resolved), ItemMissing: itemMissing}, nil
}

// Reject resolves the review without touching the underlying item. Owner
// only. Rejecting an already-resolved review is a no-op surfaced as
// ReviewNotPending.
func (s *Service) Reject(ctx context.Context, actor auth.Identity, reviewID int64) (*Review, error) {
	if !s.engine.IsOwner(actor) {
		s.logger.WarnContext(ctx, "review rejection denied: owner required", "actor_id", actor.ID, "review_id", reviewID)
		return nil, internal.ErrPermissionDenied
	}

	rec, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if rec.Status != StatusPending {
		s.logger.WarnContext(ctx, "reject on resolved review", "review_id", reviewID, "status", rec.Status)
		return nil, internal.ErrReviewNotPending
	}

	transitioned, err := s.repo.TransitionStatus(ctx, reviewID, StatusPending, StatusRejected, time.Now())
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}
	if !transitioned {
		return nil, internal.ErrReviewNotPending
	}

	s.logger.InfoContext(ctx, "deletion review rejected",
		"review_id", reviewID,
		"item_type", rec.ItemType,
		"item_id", rec.ItemID)

	s.activity.Record(ctx, actor, "owner", fmt.Sprintf("%s deletion rejected by owner", rec.ItemType), map[string]interface{}{
		"review_id": reviewID,
		"item_type": rec.ItemType,
		"item_id":   rec.ItemID,
	})

	resolved, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(resolved), nil
}

func (s *Service) ListByStatus(ctx context.Context, status string) ([]*Review, error) {
	if status == "" {
		status = StatusPending
	}
	if status != StatusPending && status != StatusApproved && status != StatusRejected {
		return nil, internal.NewValidationError("unknown review status", internal.ErrCodeValidationFailed)
	}

	rows, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, internal.ErrStoreUnavailable.WithCause(err)
	}

	result := make([]*Review, 0, len(rows))
	for _, row := range rows {
		result = append(result, FromDataModel(row))
	}
	return result, nil
}
