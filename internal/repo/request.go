package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/assetflow/assetflow/internal/core"
	"github.com/assetflow/assetflow/internal/models"
)

const requestColumns = `id, asset_id, asset_name, asset_cost, requested_by, justification, status,
	reviewed_by, reviewer_email, review_comment, reviewed_at, created_at, updated_at`

// RequestRepo persists deletion requests. Mutations take a Querier so the
// coordinator can run them inside its transaction.
type RequestRepo struct {
	DB *sql.DB
}

func NewRequestRepo(db *sql.DB) *RequestRepo {
	return &RequestRepo{DB: db}
}

func scanRequest(row interface{ Scan(dest ...any) error }) (models.DeletionRequest, error) {
	var (
		req           models.DeletionRequest
		assetID       sql.NullInt64
		reviewedBy    sql.NullInt64
		reviewerEmail sql.NullString
		reviewComment sql.NullString
		reviewedAt    sql.NullTime
	)
	err := row.Scan(
		&req.ID, &assetID, &req.AssetName, &req.AssetCost, &req.RequestedBy,
		&req.Justification, &req.Status,
		&reviewedBy, &reviewerEmail, &reviewComment, &reviewedAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return req, err
	}
	if assetID.Valid {
		v := int(assetID.Int64)
		req.AssetID = &v
	}
	if reviewedBy.Valid {
		v := int(reviewedBy.Int64)
		req.ReviewedBy = &v
	}
	if reviewerEmail.Valid {
		req.ReviewerEmail = &reviewerEmail.String
	}
	if reviewComment.Valid {
		req.ReviewComment = &reviewComment.String
	}
	if reviewedAt.Valid {
		req.ReviewedAt = &reviewedAt.Time
	}
	return req, nil
}

// Create inserts a pending request with the asset name/cost snapshot. The
// partial unique index on (asset_id) WHERE status='pending' backstops the
// one-pending-per-asset invariant; a violation surfaces as a unique-violation
// error for the caller to translate.
func (r *RequestRepo) Create(ctx context.Context, q Querier, assetID int, assetName string, assetCost float64, requestedBy int, justification string) (models.DeletionRequest, error) {
	return scanRequest(q.QueryRowContext(ctx,
		`INSERT INTO deletion_requests (asset_id, asset_name, asset_cost, requested_by, justification, status)
		 VALUES ($1, $2, $3, $4, $5, 'pending')
		 RETURNING `+requestColumns,
		assetID, assetName, assetCost, requestedBy, justification,
	))
}

func (r *RequestRepo) GetByID(ctx context.Context, id int) (models.DeletionRequest, error) {
	req, err := scanRequest(r.DB.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM deletion_requests WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return req, &core.NotFoundError{Entity: "deletion request", ID: id}
	}
	return req, err
}

// GetForUpdate loads the request with a row lock inside the caller's
// transaction. The lock order is always request row first, then asset row,
// so two concurrent reviewers cannot deadlock.
func (r *RequestRepo) GetForUpdate(ctx context.Context, q Querier, id int) (models.DeletionRequest, error) {
	req, err := scanRequest(q.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM deletion_requests WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return req, &core.NotFoundError{Entity: "deletion request", ID: id}
	}
	return req, err
}

// GetPendingByAssetForUpdate locks the pending request referencing assetID,
// if one exists. Returns found=false when the asset has no pending request.
func (r *RequestRepo) GetPendingByAssetForUpdate(ctx context.Context, q Querier, assetID int) (models.DeletionRequest, bool, error) {
	req, err := scanRequest(q.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM deletion_requests WHERE asset_id = $1 AND status = 'pending' FOR UPDATE`,
		assetID))
	if errors.Is(err, sql.ErrNoRows) {
		return req, false, nil
	}
	if err != nil {
		return req, false, err
	}
	return req, true, nil
}

// HasPending reports whether a pending request references the asset.
func (r *RequestRepo) HasPending(ctx context.Context, q Querier, assetID int) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM deletion_requests WHERE asset_id = $1 AND status = 'pending')`,
		assetID).Scan(&exists)
	return exists, err
}

// MarkReviewed persists an approved/rejected transition. The WHERE clause
// re-checks status='pending' at the SQL level; zero rows means the request
// was resolved concurrently and the caller gets a core.StaleStateError.
func (r *RequestRepo) MarkReviewed(ctx context.Context, q Querier, req models.DeletionRequest) (models.DeletionRequest, error) {
	out, err := scanRequest(q.QueryRowContext(ctx,
		`UPDATE deletion_requests
		 SET status = $1, reviewed_by = $2, reviewer_email = $3, review_comment = $4, reviewed_at = $5, updated_at = NOW()
		 WHERE id = $6 AND status = 'pending'
		 RETURNING `+requestColumns,
		req.Status, req.ReviewedBy, req.ReviewerEmail, req.ReviewComment, req.ReviewedAt, req.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return out, &core.StaleStateError{RequestID: req.ID, Status: "resolved"}
	}
	return out, err
}

// MarkCancelled persists a cancel transition with the same pending re-check.
func (r *RequestRepo) MarkCancelled(ctx context.Context, q Querier, id int) (models.DeletionRequest, error) {
	out, err := scanRequest(q.QueryRowContext(ctx,
		`UPDATE deletion_requests
		 SET status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+requestColumns,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return out, &core.StaleStateError{RequestID: id, Status: "resolved"}
	}
	return out, err
}

// CountStalePending counts pending requests created more than olderThan ago.
// Used by the scheduler sweep for ops visibility; it never mutates anything.
func (r *RequestRepo) CountStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deletion_requests WHERE status = 'pending' AND created_at < NOW() - $1::interval`,
		fmt.Sprintf("%d seconds", int(olderThan.Seconds())),
	).Scan(&n)
	return n, err
}

// RequestFilter narrows List results. Zero values mean "no filter".
type RequestFilter struct {
	Status      string
	RequestedBy int
	Limit       int
	Offset      int
}

// List returns deletion requests newest first, optionally filtered by status
// and requester.
func (r *RequestRepo) List(ctx context.Context, f RequestFilter) ([]models.DeletionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM deletion_requests`
	var (
		args  []any
		where []string
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.RequestedBy != 0 {
		args = append(args, f.RequestedBy)
		where = append(where, fmt.Sprintf("requested_by = $%d", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.DeletionRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
