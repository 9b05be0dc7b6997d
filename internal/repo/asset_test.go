package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/assetflow/assetflow/internal/core"
	"github.com/assetflow/assetflow/internal/models"
)

var assetTestCols = []string{
	"id", "name", "category_id", "department_id", "purchase_date", "cost",
	"created_by", "updated_by", "created_at", "updated_at",
}

func TestAssetRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	purchased := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO assets \(name, category_id, department_id, purchase_date, cost, created_by, updated_by\)`).
		WithArgs("laptop", 1, 2, purchased, 1200.0, 7).
		WillReturnRows(sqlmock.NewRows(assetTestCols).
			AddRow(10, "laptop", 1, 2, purchased, 1200.0, 7, 7, now, now))

	r := NewAssetRepo(db)
	a, err := r.Create(context.Background(), models.Asset{
		Name: "laptop", CategoryID: 1, DepartmentID: 2,
		PurchaseDate: purchased, Cost: 1200, CreatedBy: 7,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID != 10 || a.UpdatedBy != 7 {
		t.Errorf("unexpected asset: %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_GetForUpdate_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM assets WHERE id = \$1 FOR UPDATE`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	r := NewAssetRepo(db)
	_, err = r.GetForUpdate(context.Background(), db, 999)
	var nfErr *core.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_DeleteTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := NewAssetRepo(db)
	deleted, err := r.DeleteTx(context.Background(), db, 10)
	if err != nil {
		t.Fatalf("DeleteTx: %v", err)
	}
	if !deleted {
		t.Error("first delete: got false, want true")
	}
	deleted, err = r.DeleteTx(context.Background(), db, 10)
	if err != nil {
		t.Fatalf("DeleteTx: %v", err)
	}
	if deleted {
		t.Error("second delete: got true, want false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAssetRepo_ListPaginated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM assets ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(assetTestCols).
			AddRow(1, "laptop", 1, 1, now, 1200.0, 7, 7, now, now).
			AddRow(2, "monitor", 2, 1, now, 300.0, 7, 7, now, now))

	r := NewAssetRepo(db)
	assets, err := r.ListPaginated(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("ListPaginated: %v", err)
	}
	if len(assets) != 2 || assets[1].Name != "monitor" {
		t.Errorf("unexpected list: %+v", assets)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
