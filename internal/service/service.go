// Package service implements the deletion-request lifecycle over a single
// Postgres transaction per operation: approve deletes the asset, marks the
// request approved, and writes the audit trail as one unit of work, or does
// nothing at all.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/assetflow/assetflow/internal/core"
	"github.com/assetflow/assetflow/internal/lifecycle"
	"github.com/assetflow/assetflow/internal/metrics"
	"github.com/assetflow/assetflow/internal/models"
	"github.com/assetflow/assetflow/internal/policy"
	"github.com/assetflow/assetflow/internal/repo"
)

// MinJustificationLen is the minimum length of a deletion-request
// justification after trimming whitespace.
const MinJustificationLen = 10

// pqUniqueViolation is the Postgres error code raised by the partial unique
// index when a second pending request targets the same asset.
const pqUniqueViolation = "23505"

// Service coordinates the deletion-request workflow. All mutations of the
// deletion_requests and assets tables go through here; nothing else in the
// codebase deletes an asset.
type Service struct {
	DB       *sql.DB
	Assets   *repo.AssetRepo
	Requests *repo.RequestRepo
	Audit    *repo.AuditRepo

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func New(db *sql.DB) *Service {
	return &Service{
		DB:       db,
		Assets:   repo.NewAssetRepo(db),
		Requests: repo.NewRequestRepo(db),
		Audit:    repo.NewAuditRepo(db),
		Now:      time.Now,
	}
}

// ApprovalOutcome describes a successful approval. AssetDeleted is false
// when a concurrent direct admin deletion already removed the asset; the
// request is still marked approved, recording that deletion occurred.
type ApprovalOutcome struct {
	Request      models.DeletionRequest `json:"request"`
	AssetDeleted bool                   `json:"asset_deleted"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// txErr wraps an infrastructure failure; typed domain errors pass through
// unchanged so handlers can map them to status codes.
func txErr(op string, err error) error {
	var (
		authErr  *core.AuthorizationError
		valErr   *core.ValidationError
		staleErr *core.StaleStateError
		nfErr    *core.NotFoundError
	)
	if errors.As(err, &authErr) || errors.As(err, &valErr) || errors.As(err, &staleErr) || errors.As(err, &nfErr) {
		return err
	}
	return &core.TransactionError{Op: op, Err: err}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// SubmitDeletionRequest opens a pending request for the asset, snapshotting
// its name and cost so history survives the asset's eventual deletion.
func (s *Service) SubmitDeletionRequest(ctx context.Context, assetID int, requester models.User, justification string) (models.DeletionRequest, error) {
	var zero models.DeletionRequest
	if requester.ID == 0 {
		return zero, &core.ValidationError{Field: "actor", Reason: "is required"}
	}
	if len(strings.TrimSpace(justification)) < MinJustificationLen {
		return zero, &core.ValidationError{Field: "justification", Reason: "must be at least 10 characters"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return zero, &core.TransactionError{Op: "submit deletion request", Err: err}
	}
	defer tx.Rollback()

	asset, err := s.Assets.GetForUpdate(ctx, tx, assetID)
	if err != nil {
		return zero, txErr("submit deletion request", err)
	}
	hasPending, err := s.Requests.HasPending(ctx, tx, assetID)
	if err != nil {
		return zero, txErr("submit deletion request", err)
	}
	if err := policy.CanSubmit(requester, asset, hasPending); err != nil {
		return zero, err
	}

	req, err := s.Requests.Create(ctx, tx, asset.ID, asset.Name, asset.Cost, requester.ID, justification)
	if err != nil {
		// The partial unique index backstops the HasPending check against
		// a racing submit.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return zero, &core.AuthorizationError{Op: "submit deletion request", Reason: "a pending request already exists for this asset"}
		}
		return zero, txErr("submit deletion request", err)
	}

	_, err = s.Audit.Append(ctx, tx, models.AuditEntry{
		Action:     models.ActionRequestSubmitted,
		EntityType: models.EntityRequest,
		EntityID:   req.ID,
		ActorID:    requester.ID,
		Details: mustJSON(map[string]any{
			"asset_id":      asset.ID,
			"asset_name":    asset.Name,
			"asset_cost":    asset.Cost,
			"justification": justification,
		}),
	})
	if err != nil {
		return zero, txErr("submit deletion request", err)
	}

	if err := tx.Commit(); err != nil {
		return zero, &core.TransactionError{Op: "submit deletion request", Err: err}
	}
	return req, nil
}

// CancelDeletionRequest withdraws a pending request. Only the original
// requester may cancel; a request that already left pending yields a
// core.StaleStateError.
func (s *Service) CancelDeletionRequest(ctx context.Context, requestID int, actor models.User) error {
	if actor.ID == 0 {
		return &core.ValidationError{Field: "actor", Reason: "is required"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return &core.TransactionError{Op: "cancel deletion request", Err: err}
	}
	defer tx.Rollback()

	req, err := s.Requests.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return txErr("cancel deletion request", err)
	}
	if !req.IsPending() {
		return &core.StaleStateError{RequestID: req.ID, Status: req.Status}
	}
	if err := policy.CanCancel(actor, req); err != nil {
		return err
	}
	if _, err := lifecycle.Transition(req, lifecycle.EventCancel, actor, nil, s.now()); err != nil {
		return err
	}

	cancelled, err := s.Requests.MarkCancelled(ctx, tx, req.ID)
	if err != nil {
		return txErr("cancel deletion request", err)
	}

	_, err = s.Audit.Append(ctx, tx, models.AuditEntry{
		Action:     models.ActionRequestCancelled,
		EntityType: models.EntityRequest,
		EntityID:   cancelled.ID,
		ActorID:    actor.ID,
		Details: mustJSON(map[string]any{
			"asset_id":   req.AssetID,
			"asset_name": req.AssetName,
		}),
	})
	if err != nil {
		return txErr("cancel deletion request", err)
	}

	if err := tx.Commit(); err != nil {
		return &core.TransactionError{Op: "cancel deletion request", Err: err}
	}
	metrics.IncResolved("cancelled")
	return nil
}

// ApproveDeletionRequest resolves a pending request by deleting the asset,
// marking the request approved, and writing the audit trail, all in one
// transaction. The pending check happens after the row lock is held, so of
// two racing reviewers exactly one succeeds and the other sees a
// core.StaleStateError.
func (s *Service) ApproveDeletionRequest(ctx context.Context, requestID int, reviewer models.User, comment *string) (ApprovalOutcome, error) {
	var zero ApprovalOutcome
	if err := policy.CanReview(reviewer); err != nil {
		return zero, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return zero, &core.TransactionError{Op: "approve deletion request", Err: err}
	}
	defer tx.Rollback()

	// Lock order: request row first, then asset row.
	req, err := s.Requests.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return zero, txErr("approve deletion request", err)
	}
	if !req.IsPending() {
		return zero, &core.StaleStateError{RequestID: req.ID, Status: req.Status}
	}

	updated, err := lifecycle.Transition(req, lifecycle.EventApprove, reviewer, comment, s.now())
	if err != nil {
		return zero, err
	}

	// Delete the asset. A missing asset means a concurrent direct admin
	// deletion already removed it; the request is still marked approved.
	assetDeleted := false
	if req.AssetID != nil {
		asset, err := s.Assets.GetForUpdate(ctx, tx, *req.AssetID)
		var nfErr *core.NotFoundError
		switch {
		case errors.As(err, &nfErr):
			// already gone
		case err != nil:
			return zero, txErr("approve deletion request", err)
		default:
			assetDeleted, err = s.Assets.DeleteTx(ctx, tx, asset.ID)
			if err != nil {
				return zero, txErr("approve deletion request", err)
			}
		}
	}

	saved, err := s.Requests.MarkReviewed(ctx, tx, updated)
	if err != nil {
		return zero, txErr("approve deletion request", err)
	}

	if assetDeleted {
		_, err = s.Audit.Append(ctx, tx, models.AuditEntry{
			Action:     models.ActionAssetDeleted,
			EntityType: models.EntityAsset,
			EntityID:   *req.AssetID,
			ActorID:    reviewer.ID,
			Details: mustJSON(map[string]any{
				"name":            req.AssetName,
				"cost":            req.AssetCost,
				"request_id":      req.ID,
				"direct_deletion": false,
			}),
		})
		if err != nil {
			return zero, txErr("approve deletion request", err)
		}
	}

	_, err = s.Audit.Append(ctx, tx, models.AuditEntry{
		Action:     models.ActionRequestApproved,
		EntityType: models.EntityRequest,
		EntityID:   saved.ID,
		ActorID:    reviewer.ID,
		Details: mustJSON(map[string]any{
			"asset_id":        req.AssetID,
			"asset_name":      req.AssetName,
			"asset_cost":      req.AssetCost,
			"review_comment":  comment,
			"direct_deletion": false,
		}),
	})
	if err != nil {
		return zero, txErr("approve deletion request", err)
	}

	if err := tx.Commit(); err != nil {
		return zero, &core.TransactionError{Op: "approve deletion request", Err: err}
	}
	metrics.IncResolved("approved")
	return ApprovalOutcome{Request: saved, AssetDeleted: assetDeleted}, nil
}

// RejectDeletionRequest resolves a pending request without touching the
// asset. Same locking and atomicity discipline as approval.
func (s *Service) RejectDeletionRequest(ctx context.Context, requestID int, reviewer models.User, comment *string) error {
	if err := policy.CanReview(reviewer); err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return &core.TransactionError{Op: "reject deletion request", Err: err}
	}
	defer tx.Rollback()

	req, err := s.Requests.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return txErr("reject deletion request", err)
	}
	if !req.IsPending() {
		return &core.StaleStateError{RequestID: req.ID, Status: req.Status}
	}

	updated, err := lifecycle.Transition(req, lifecycle.EventReject, reviewer, comment, s.now())
	if err != nil {
		return err
	}

	saved, err := s.Requests.MarkReviewed(ctx, tx, updated)
	if err != nil {
		return txErr("reject deletion request", err)
	}

	_, err = s.Audit.Append(ctx, tx, models.AuditEntry{
		Action:     models.ActionRequestRejected,
		EntityType: models.EntityRequest,
		EntityID:   saved.ID,
		ActorID:    reviewer.ID,
		Details: mustJSON(map[string]any{
			"asset_id":       req.AssetID,
			"asset_name":     req.AssetName,
			"review_comment": comment,
		}),
	})
	if err != nil {
		return txErr("reject deletion request", err)
	}

	if err := tx.Commit(); err != nil {
		return &core.TransactionError{Op: "reject deletion request", Err: err}
	}
	metrics.IncResolved("rejected")
	return nil
}

// DeleteAssetDirectly removes an asset without a review round-trip. If a
// pending request references the asset it is auto-resolved to approved with
// a system comment in the same transaction, so no pending request is ever
// left pointing at a nonexistent asset.
func (s *Service) DeleteAssetDirectly(ctx context.Context, assetID int, admin models.User) error {
	if err := policy.CanDirectlyDelete(admin); err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return &core.TransactionError{Op: "delete asset", Err: err}
	}
	defer tx.Rollback()

	// Lock order: any pending request row first, then the asset row.
	pending, hasPending, err := s.Requests.GetPendingByAssetForUpdate(ctx, tx, assetID)
	if err != nil {
		return txErr("delete asset", err)
	}

	asset, err := s.Assets.GetForUpdate(ctx, tx, assetID)
	if err != nil {
		return txErr("delete asset", err)
	}
	if _, err := s.Assets.DeleteTx(ctx, tx, asset.ID); err != nil {
		return txErr("delete asset", err)
	}

	var resolvedRequestID *int
	if hasPending {
		comment := models.AutoApproveComment
		updated, err := lifecycle.Transition(pending, lifecycle.EventApprove, admin, &comment, s.now())
		if err != nil {
			return err
		}
		saved, err := s.Requests.MarkReviewed(ctx, tx, updated)
		if err != nil {
			return txErr("delete asset", err)
		}
		resolvedRequestID = &saved.ID

		_, err = s.Audit.Append(ctx, tx, models.AuditEntry{
			Action:     models.ActionRequestApproved,
			EntityType: models.EntityRequest,
			EntityID:   saved.ID,
			ActorID:    admin.ID,
			Details: mustJSON(map[string]any{
				"asset_id":        asset.ID,
				"asset_name":      asset.Name,
				"asset_cost":      asset.Cost,
				"review_comment":  comment,
				"direct_deletion": true,
			}),
		})
		if err != nil {
			return txErr("delete asset", err)
		}
	}

	_, err = s.Audit.Append(ctx, tx, models.AuditEntry{
		Action:     models.ActionAssetDeleted,
		EntityType: models.EntityAsset,
		EntityID:   asset.ID,
		ActorID:    admin.ID,
		Details: mustJSON(map[string]any{
			"name":            asset.Name,
			"cost":            asset.Cost,
			"request_id":      resolvedRequestID,
			"direct_deletion": true,
		}),
	})
	if err != nil {
		return txErr("delete asset", err)
	}

	if err := tx.Commit(); err != nil {
		return &core.TransactionError{Op: "delete asset", Err: err}
	}
	if hasPending {
		metrics.IncResolved("auto_approved")
	}
	return nil
}

// ListDeletionRequests is a read-side passthrough for display and filtering.
func (s *Service) ListDeletionRequests(ctx context.Context, f repo.RequestFilter) ([]models.DeletionRequest, error) {
	return s.Requests.List(ctx, f)
}

// ListAuditLogs is a read-side passthrough over the audit trail.
func (s *Service) ListAuditLogs(ctx context.Context, f repo.AuditFilter) ([]models.AuditEntry, error) {
	return s.Audit.List(ctx, f)
}
