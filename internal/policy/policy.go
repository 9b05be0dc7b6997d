// Package policy decides who may act on assets and deletion requests. All
// checks are pure predicates over the caller-supplied snapshot; a denial is
// returned as a core.AuthorizationError, never swallowed.
package policy

import (
	"github.com/assetflow/assetflow/internal/core"
	"github.com/assetflow/assetflow/internal/models"
)

// CanSubmit reports whether actor may open a deletion request for asset.
// hasPending is the caller's snapshot of whether a pending request already
// references the asset.
func CanSubmit(actor models.User, asset models.Asset, hasPending bool) error {
	if actor.ID != asset.CreatedBy && !actor.IsAdmin() {
		return &core.AuthorizationError{Op: "submit deletion request", Reason: "only the asset owner may request deletion"}
	}
	if hasPending {
		return &core.AuthorizationError{Op: "submit deletion request", Reason: "a pending request already exists for this asset"}
	}
	return nil
}

// CanCancel reports whether actor may cancel the request. Only the original
// requester may cancel, and only while the request is still pending.
func CanCancel(actor models.User, req models.DeletionRequest) error {
	if actor.ID != req.RequestedBy {
		return &core.AuthorizationError{Op: "cancel deletion request", Reason: "only the requester may cancel"}
	}
	if !req.IsPending() {
		return &core.AuthorizationError{Op: "cancel deletion request", Reason: "request is no longer pending"}
	}
	return nil
}

// CanReview reports whether actor may approve or reject deletion requests.
func CanReview(actor models.User) error {
	if !actor.IsAdmin() {
		return &core.AuthorizationError{Op: "review deletion request", Reason: "admin role required"}
	}
	return nil
}

// CanDirectlyDelete reports whether actor may delete an asset without going
// through the request workflow.
func CanDirectlyDelete(actor models.User) error {
	if !actor.IsAdmin() {
		return &core.AuthorizationError{Op: "delete asset", Reason: "admin role required"}
	}
	return nil
}
