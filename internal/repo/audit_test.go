package repo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/assetflow/assetflow/internal/models"
)

func TestAuditRepo_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	details := json.RawMessage(`{"asset_id":10,"direct_deletion":true}`)
	mock.ExpectQuery(`INSERT INTO audit_logs \(action, entity_type, entity_id, actor_id, details\)`).
		WithArgs(models.ActionAssetDeleted, models.EntityAsset, 10, 2, []byte(details)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	r := NewAuditRepo(db)
	id, err := r.Append(context.Background(), db, models.AuditEntry{
		Action:     models.ActionAssetDeleted,
		EntityType: models.EntityAsset,
		EntityID:   10,
		ActorID:    2,
		Details:    details,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id != 42 {
		t.Errorf("id: got %d, want 42", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuditRepo_Append_NoDetails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(models.ActionUserCreated, models.EntityUser, 7, 1, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	r := NewAuditRepo(db)
	if _, err := r.Append(context.Background(), db, models.AuditEntry{
		Action:     models.ActionUserCreated,
		EntityType: models.EntityUser,
		EntityID:   7,
		ActorID:    1,
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuditRepo_List_Filtered(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	cols := []string{"id", "action", "entity_type", "entity_id", "actor_id", "details", "created_at"}
	mock.ExpectQuery(`FROM audit_logs WHERE action = \$1 AND entity_id = \$2 ORDER BY created_at DESC, id DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(models.ActionRequestApproved, 11, 50, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, models.ActionRequestApproved, models.EntityRequest, 11, 2, []byte(`{"direct_deletion":false}`), now).
			AddRow(2, models.ActionRequestApproved, models.EntityRequest, 11, 2, []byte(`null`), now))

	r := NewAuditRepo(db)
	entries, err := r.List(context.Background(), AuditFilter{Action: models.ActionRequestApproved, EntityID: 11})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len: got %d, want 2", len(entries))
	}
	var details map[string]any
	if err := json.Unmarshal(entries[0].Details, &details); err != nil {
		t.Fatalf("unmarshal details: %v", err)
	}
	if v, ok := details["direct_deletion"].(bool); !ok || v {
		t.Errorf("direct_deletion: got %v", details["direct_deletion"])
	}
	// SQL NULL details come back as a nil RawMessage, not the string "null".
	if entries[1].Details != nil {
		t.Errorf("details: got %s, want nil", entries[1].Details)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
