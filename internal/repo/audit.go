package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/assetflow/assetflow/internal/models"
)

// AuditRepo appends and reads immutable audit log entries. There are no
// update or delete operations; rows are written once and kept forever.
type AuditRepo struct {
	DB *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{DB: db}
}

// Append writes one entry on q and returns its id. Pass the open *sql.Tx of
// the operation being documented so the entry commits or rolls back with it;
// it must never be written as a separately-committed side effect.
func (r *AuditRepo) Append(ctx context.Context, q Querier, e models.AuditEntry) (int, error) {
	var details any
	if len(e.Details) > 0 {
		details = []byte(e.Details)
	}
	var id int
	err := q.QueryRowContext(ctx,
		`INSERT INTO audit_logs (action, entity_type, entity_id, actor_id, details)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		e.Action, e.EntityType, e.EntityID, e.ActorID, details,
	).Scan(&id)
	return id, err
}

// AuditFilter narrows List results. Zero values mean "no filter".
type AuditFilter struct {
	Action     string
	EntityType string
	EntityID   int
	Limit      int
	Offset     int
}

// List returns audit entries newest first.
func (r *AuditRepo) List(ctx context.Context, f AuditFilter) ([]models.AuditEntry, error) {
	query := `SELECT id, action, entity_type, entity_id, actor_id, COALESCE(details, 'null'::jsonb), created_at FROM audit_logs`
	var (
		args  []any
		where []string
	)
	if f.Action != "" {
		args = append(args, f.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if f.EntityType != "" {
		args = append(args, f.EntityType)
		where = append(where, fmt.Sprintf("entity_type = $%d", len(args)))
	}
	if f.EntityID != 0 {
		args = append(args, f.EntityID)
		where = append(where, fmt.Sprintf("entity_id = $%d", len(args)))
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

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var details []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.ActorID, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 && string(details) != "null" {
			e.Details = details
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
