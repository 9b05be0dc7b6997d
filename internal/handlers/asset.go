package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/assetflow/assetflow/internal/middleware"
	"github.com/assetflow/assetflow/internal/models"
	"github.com/assetflow/assetflow/internal/repo"
	"github.com/assetflow/assetflow/internal/service"
)

type AssetHandler struct {
	Repo      *repo.AssetRepo
	AuditRepo *repo.AuditRepo
	Service   *service.Service
}

type assetInput struct {
	Name         string    `json:"name" validate:"required,min=2,max=255"`
	CategoryID   int       `json:"category_id" validate:"required,gt=0"`
	DepartmentID int       `json:"department_id" validate:"required,gt=0"`
	PurchaseDate time.Time `json:"purchase_date" validate:"required"`
	Cost         float64   `json:"cost" validate:"required,gt=0"`
}

func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var input assetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Repo.Create(r.Context(), models.Asset{
		Name:         input.Name,
		CategoryID:   input.CategoryID,
		DepartmentID: input.DepartmentID,
		PurchaseDate: input.PurchaseDate,
		Cost:         input.Cost,
		CreatedBy:    actor.ID,
	})
	if err != nil {
		JSONError(w, "failed to create asset", http.StatusInternalServerError)
		return
	}

	// Best effort outside the insert; a lost entry is still worth a trace.
	if h.AuditRepo != nil {
		if _, err := h.AuditRepo.Append(r.Context(), h.Repo.DB, models.AuditEntry{
			Action:     models.ActionAssetCreated,
			EntityType: models.EntityAsset,
			EntityID:   asset.ID,
			ActorID:    actor.ID,
		}); err != nil {
			slog.Error("audit append", "action", models.ActionAssetCreated, "asset_id", asset.ID, "err", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	limit := 10
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

	name := r.URL.Query().Get("name")

	var assets []models.Asset
	var err error
	if name != "" {
		assets, err = h.Repo.SearchPaginated(r.Context(), name, limit, offset)
	} else {
		assets, err = h.Repo.ListPaginated(r.Context(), limit, offset)
	}
	if err != nil {
		JSONError(w, "failed to fetch assets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assets)
}

func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	asset, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "asset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	var input assetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Only the owner or an admin may mutate an asset.
	current, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, "asset not found", http.StatusNotFound)
		return
	}
	if current.CreatedBy != actor.ID && !actor.IsAdmin() {
		JSONError(w, "only the asset owner may update it", http.StatusForbidden)
		return
	}

	asset, err := h.Repo.UpdateByID(r.Context(), id, models.Asset{
		Name:         input.Name,
		CategoryID:   input.CategoryID,
		DepartmentID: input.DepartmentID,
		PurchaseDate: input.PurchaseDate,
		Cost:         input.Cost,
		UpdatedBy:    actor.ID,
	})
	if err != nil {
		JSONError(w, "failed to update asset", http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		if _, err := h.AuditRepo.Append(r.Context(), h.Repo.DB, models.AuditEntry{
			Action:     models.ActionAssetUpdated,
			EntityType: models.EntityAsset,
			EntityID:   asset.ID,
			ActorID:    actor.ID,
		}); err != nil {
			slog.Error("audit append", "action", models.ActionAssetUpdated, "asset_id", asset.ID, "err", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

// DeleteAsset is the direct admin deletion path. It goes through the
// service so a pending deletion request for the asset is auto-resolved in
// the same transaction.
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteAssetDirectly(r.Context(), id, actor); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
