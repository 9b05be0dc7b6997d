package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/assetflow/assetflow/internal/models"
	"github.com/assetflow/assetflow/internal/repo"
)

var userTestCols = []string{"id", "username", "email", "password_hash", "role"}

func TestAuthHandler_Login(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userTestCols).
			AddRow(7, "alice", "alice@example.com", string(hash), models.RoleMember))

	h := &AuthHandler{UserRepo: repo.NewUserRepo(db), Secret: []byte("test-secret"), ExpireHours: 1}

	body := []byte(`{"username":"alice","password":"s3cret"}`)
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.User.ID != 7 || out.User.Role != models.RoleMember {
		t.Errorf("unexpected user: %+v", out.User)
	}

	// The token must carry the identity claims the middleware reads back.
	token, err := jwt.Parse(out.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["user_id"].(float64) != 7 || claims["role"].(string) != models.RoleMember {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims["email"].(string) != "alice@example.com" {
		t.Errorf("email claim: %v", claims["email"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userTestCols).
			AddRow(7, "alice", "alice@example.com", string(hash), models.RoleMember))

	h := &AuthHandler{UserRepo: repo.NewUserRepo(db), Secret: []byte("test-secret")}

	body := []byte(`{"username":"alice","password":"wrong"}`)
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &AuthHandler{UserRepo: repo.NewUserRepo(db), Secret: []byte("test-secret")}

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Login status: got %d, want 400", rr.Code)
	}
}

func TestAuthHandler_Register(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), models.RoleMember).
		WillReturnRows(sqlmock.NewRows(userTestCols).
			AddRow(7, "alice", "alice@example.com", "", models.RoleMember))

	h := &AuthHandler{UserRepo: repo.NewUserRepo(db)}

	body := []byte(`{"username":"alice","email":"alice@example.com","password":"s3cret"}`)
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Register status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var user models.User
	if err := json.NewDecoder(rr.Body).Decode(&user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Self-registration always yields a member, never an admin.
	if user.Role != models.RoleMember {
		t.Errorf("role: got %q, want member", user.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	h := &AuthHandler{UserRepo: repo.NewUserRepo(db)}

	body := []byte(`{"username":"alice","email":"alice@example.com","password":"s3cret"}`)
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("Register status: got %d, want 409", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &AuthHandler{UserRepo: repo.NewUserRepo(db)}

	body := []byte(`{"username":"alice"}`)
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Register status: got %d, want 400", rr.Code)
	}
	var out struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Fields["email"] != "required" || out.Fields["password"] != "required" {
		t.Errorf("unexpected fields: %+v", out.Fields)
	}
}
