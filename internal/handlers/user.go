package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/assetflow/assetflow/internal/middleware"
	"github.com/assetflow/assetflow/internal/models"
	"github.com/assetflow/assetflow/internal/repo"
)

type UserHandler struct {
	Repo      *repo.UserRepo
	AuditRepo *repo.AuditRepo
}

// CreateUser creates an account with an explicit role. Admin-only; regular
// signups go through /auth/register.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok || !actor.IsAdmin() {
		JSONError(w, "admin role required", http.StatusForbidden)
		return
	}

	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
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
	role := input.Role
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleMember && role != models.RoleAdmin {
		fields["role"] = "must be member or admin"
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

	user, err := h.Repo.Create(r.Context(), input.Username, input.Email, string(hash), role)
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			JSONError(w, "username or email already taken", http.StatusConflict)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		if _, err := h.AuditRepo.Append(r.Context(), h.Repo.DB, models.AuditEntry{
			Action:     models.ActionUserCreated,
			EntityType: models.EntityUser,
			EntityID:   user.ID,
			ActorID:    actor.ID,
		}); err != nil {
			slog.Error("audit append", "action", models.ActionUserCreated, "user_id", user.ID, "err", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	users, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdateUserRole promotes or demotes a user. Admin-only.
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok || !actor.IsAdmin() {
		JSONError(w, "admin role required", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Role != models.RoleMember && input.Role != models.RoleAdmin {
		JSONValidationError(w, "validation failed", map[string]string{"role": "must be member or admin"}, http.StatusBadRequest)
		return
	}

	user, err := h.Repo.UpdateRole(r.Context(), id, input.Role)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if h.AuditRepo != nil {
		if _, err := h.AuditRepo.Append(r.Context(), h.Repo.DB, models.AuditEntry{
			Action:     models.ActionUserUpdated,
			EntityType: models.EntityUser,
			EntityID:   user.ID,
			ActorID:    actor.ID,
		}); err != nil {
			slog.Error("audit append", "action", models.ActionUserUpdated, "user_id", user.ID, "err", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
