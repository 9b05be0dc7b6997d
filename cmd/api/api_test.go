package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/assetflow/assetflow/internal/config"
	"github.com/assetflow/assetflow/internal/models"
)

var userTestCols = []string{"id", "username", "email", "password_hash", "role"}

var requestTestCols = []string{
	"id", "asset_id", "asset_name", "asset_cost", "requested_by", "justification", "status",
	"reviewed_by", "reviewer_email", "review_comment", "reviewed_at", "created_at", "updated_at",
}

var assetTestCols = []string{
	"id", "name", "category_id", "department_id", "purchase_date", "cost",
	"created_by", "updated_by", "created_at", "updated_at",
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", JWTExpireHours: 1}
}

// login runs the full login round-trip against the router and returns the token.
func login(t *testing.T, handler http.Handler, mock sqlmock.Sqlmock, username, password string, userID int, role string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs(username).
		WillReturnRows(sqlmock.NewRows(userTestCols).
			AddRow(userID, username, username+"@example.com", string(hash), role))

	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("login status: got %d: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return out.Token
}

func TestAPI_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := newRouter(db, testConfig())
	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("health status: got %d, want 200", rr.Code)
	}
}

func TestAPI_RequestsRequireAuth(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := newRouter(db, testConfig())
	req := httptest.NewRequest("GET", "/requests", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list status: got %d, want 401", rr.Code)
	}
}

func TestAPI_LoginThenSubmitRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := newRouter(db, testConfig())
	token := login(t, handler, mock, "alice", "s3cret", 7, models.RoleMember)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM assets WHERE id = \$1 FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(assetTestCols).
			AddRow(10, "laptop", 1, 1, now, 1200.0, 7, 7, now, now))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM deletion_requests`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO deletion_requests`).
		WillReturnRows(sqlmock.NewRows(requestTestCols).
			AddRow(11, 10, "laptop", 1200.0, 7, "broken beyond repair", "pending",
				nil, nil, nil, nil, now, now))
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	body := []byte(`{"asset_id":10,"justification":"broken beyond repair"}`)
	req := httptest.NewRequest("POST", "/requests", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("submit status: got %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var out models.DeletionRequest
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ID != 11 || out.Status != models.StatusPending || out.RequestedBy != 7 {
		t.Errorf("unexpected request: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_MemberCannotApprove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := newRouter(db, testConfig())
	token := login(t, handler, mock, "alice", "s3cret", 7, models.RoleMember)

	req := httptest.NewRequest("POST", "/requests/11/approve", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("member approve status: got %d, want 403: %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAPI_AdminDirectDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := newRouter(db, testConfig())
	token := login(t, handler, mock, "boss", "s3cret", 2, models.RoleAdmin)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE asset_id = \$1 AND status = 'pending' FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(requestTestCols).
			AddRow(11, 10, "laptop", 1200.0, 7, "broken beyond repair", "pending",
				nil, nil, nil, nil, now, now))
	mock.ExpectQuery(`FROM assets WHERE id = \$1 FOR UPDATE`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(assetTestCols).
			AddRow(10, "laptop", 1, 1, now, 1200.0, 7, 7, now, now))
	mock.ExpectExec(`DELETE FROM assets WHERE id = \$1`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SET status = \$1`).
		WithArgs(models.StatusApproved, 2, "boss@example.com", models.AutoApproveComment, sqlmock.AnyArg(), 11).
		WillReturnRows(sqlmock.NewRows(requestTestCols).
			AddRow(11, 10, "laptop", 1200.0, 7, "broken beyond repair", "approved",
				2, "boss@example.com", models.AutoApproveComment, now, now, now))
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	req := httptest.NewRequest("DELETE", "/assets/10", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status: got %d, want 204: %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
