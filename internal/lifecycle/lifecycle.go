// Package lifecycle owns the deletion-request state machine. A request
// starts pending and moves exactly once to approved, rejected, or cancelled;
// every other transition is rejected.
package lifecycle

import (
	"time"

	"github.com/assetflow/assetflow/internal/core"
	"github.com/assetflow/assetflow/internal/models"
)

// Event is a requested state change.
type Event string

const (
	EventApprove Event = "approve"
	EventReject  Event = "reject"
	EventCancel  Event = "cancel"
)

// Transition validates event against req's current state and actor's
// identity, and returns the updated request. The input is not mutated.
//
// approve and reject require the admin role and stamp the reviewer fields;
// comment may be nil (stored as SQL NULL, distinct from an empty string).
// cancel requires the original requester and attaches nothing. A request
// that already left pending yields a core.StaleStateError.
func Transition(req models.DeletionRequest, event Event, actor models.User, comment *string, now time.Time) (models.DeletionRequest, error) {
	if req.IsTerminal() {
		return req, &core.StaleStateError{RequestID: req.ID, Status: req.Status}
	}

	switch event {
	case EventApprove, EventReject:
		if !actor.IsAdmin() {
			return req, &core.AuthorizationError{Op: string(event) + " deletion request", Reason: "admin role required"}
		}
		reviewedAt := now
		req.ReviewedBy = &actor.ID
		req.ReviewerEmail = &actor.Email
		req.ReviewComment = comment
		req.ReviewedAt = &reviewedAt
		if event == EventApprove {
			req.Status = models.StatusApproved
		} else {
			req.Status = models.StatusRejected
		}
		return req, nil

	case EventCancel:
		if actor.ID != req.RequestedBy {
			return req, &core.AuthorizationError{Op: "cancel deletion request", Reason: "only the requester may cancel"}
		}
		req.Status = models.StatusCancelled
		return req, nil

	default:
		return req, &core.ValidationError{Field: "event", Reason: "unknown event " + string(event)}
	}
}
