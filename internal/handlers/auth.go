package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/assetflow/assetflow/internal/models"
	"github.com/assetflow/assetflow/internal/repo"
)

// AuthHandler issues JWTs carrying user_id, username, email, and role.
type AuthHandler struct {
	UserRepo    *repo.UserRepo
	Secret      []byte
	ExpireHours int
}

// Register creates a member account. Admin accounts are created by an
// existing admin through the users endpoint, never by self-registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	if input.Username == "" {
		fields["username"] = "required"
	}
	if input.Email == "" {
		fields["email"] = "required"
	}
	if input.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.Username, input.Email, string(hash), models.RoleMember)
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			JSONError(w, "username or email already taken", http.StatusConflict)
			return
		}
		slog.Error("register: create user failed", "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Login verifies username/password and returns a signed token plus the user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), input.Username)
	if err != nil {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if user.PasswordHash == "" || input.Password == "" {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	expire := h.ExpireHours
	if expire <= 0 {
		expire = 24
	}
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Duration(expire) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": signed,
		"user":  user,
	})
}
