package models

import "time"

// Deletion request statuses. pending is the only non-terminal state.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// AutoApproveComment is the system-generated review comment attached when a
// direct admin deletion resolves a pending request for the same asset.
const AutoApproveComment = "auto-approved via direct admin deletion"

// DeletionRequest tracks a member's request to remove an asset. AssetID goes
// null once the asset row is deleted; AssetName and AssetCost are snapshots
// taken at submission time so history outlives the asset.
type DeletionRequest struct {
	ID            int        `json:"id"`
	AssetID       *int       `json:"asset_id"`
	AssetName     string     `json:"asset_name"`
	AssetCost     float64    `json:"asset_cost"`
	RequestedBy   int        `json:"requested_by"`
	Justification string     `json:"justification"`
	Status        string     `json:"status"`
	ReviewedBy    *int       `json:"reviewed_by"`
	ReviewerEmail *string    `json:"reviewer_email"`
	ReviewComment *string    `json:"review_comment"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsPending reports whether the request is still awaiting review.
func (r DeletionRequest) IsPending() bool {
	return r.Status == StatusPending
}

// IsTerminal reports whether the request has been resolved; terminal
// requests accept no further transitions.
func (r DeletionRequest) IsTerminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected || r.Status == StatusCancelled
}
