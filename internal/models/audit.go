package models

import (
	"encoding/json"
	"time"
)

// Audit action kinds.
const (
	ActionAssetCreated     = "asset_created"
	ActionAssetUpdated     = "asset_updated"
	ActionAssetDeleted     = "asset_deleted"
	ActionRequestSubmitted = "deletion_request_submitted"
	ActionRequestApproved  = "deletion_request_approved"
	ActionRequestRejected  = "deletion_request_rejected"
	ActionRequestCancelled = "deletion_request_cancelled"
	ActionUserCreated      = "user_created"
	ActionUserUpdated      = "user_updated"
)

// Audit entity types.
const (
	EntityAsset   = "asset"
	EntityRequest = "deletion_request"
	EntityUser    = "user"
)

// AuditEntry is one append-only audit log row. Details is a JSON snapshot of
// the relevant data at the time of the action; resolution entries carry a
// "direct_deletion" flag distinguishing auto-approval from explicit review.
type AuditEntry struct {
	ID         int             `json:"id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   int             `json:"entity_id"`
	ActorID    int             `json:"actor_id"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
