package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/assetflow/assetflow/internal/middleware"
	"github.com/assetflow/assetflow/internal/repo"
)

// RefDataHandler serves the category and department reference endpoints.
type RefDataHandler struct {
	Repo *repo.RefDataRepo
}

func (h *RefDataHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.ListCategories(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

func (h *RefDataHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok || !actor.IsAdmin() {
		JSONError(w, "admin role required", http.StatusForbidden)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Name == "" {
		JSONError(w, "name is required", http.StatusBadRequest)
		return
	}

	c, err := h.Repo.CreateCategory(r.Context(), input.Name)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

func (h *RefDataHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Repo.ListDepartments(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(departments)
}

func (h *RefDataHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok || !actor.IsAdmin() {
		JSONError(w, "admin role required", http.StatusForbidden)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Name == "" {
		JSONError(w, "name is required", http.StatusBadRequest)
		return
	}

	d, err := h.Repo.CreateDepartment(r.Context(), input.Name)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}
