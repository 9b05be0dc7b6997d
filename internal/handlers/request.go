package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/assetflow/assetflow/internal/middleware"
	"github.com/assetflow/assetflow/internal/repo"
	"github.com/assetflow/assetflow/internal/service"
)

// RequestHandler serves the deletion-request lifecycle endpoints. All state
// changes delegate to the service, which owns the transaction.
type RequestHandler struct {
	Service *service.Service
}

// SubmitRequest opens a deletion request for an asset the actor owns.
func (h *RequestHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		AssetID       int    `json:"asset_id"`
		Justification string `json:"justification"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.AssetID <= 0 {
		JSONValidationError(w, "validation failed", map[string]string{"asset_id": "required"}, http.StatusBadRequest)
		return
	}

	req, err := h.Service.SubmitDeletionRequest(r.Context(), input.AssetID, actor, input.Justification)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(req)
}

// CancelRequest withdraws the actor's own pending request.
func (h *RequestHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	if err := h.Service.CancelDeletionRequest(r.Context(), id, actor); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// reviewInput uses a *string comment so an absent comment stays null all
// the way to storage, distinct from an empty string.
type reviewInput struct {
	Comment *string `json:"comment"`
}

// ApproveRequest resolves a pending request, deleting the asset.
func (h *RequestHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var input reviewInput
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			JSONError(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	}

	outcome, err := h.Service.ApproveDeletionRequest(r.Context(), id, actor, input.Comment)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(outcome)
}

// RejectRequest resolves a pending request, leaving the asset untouched.
func (h *RequestHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var input reviewInput
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			JSONError(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	}

	if err := h.Service.RejectDeletionRequest(r.Context(), id, actor, input.Comment); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRequests returns deletion requests, newest first. Query: status,
// requested_by, limit (default 50), offset.
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	f := repo.RequestFilter{Limit: 50}
	if s := r.URL.Query().Get("status"); s != "" {
		f.Status = s
	}
	if rb := r.URL.Query().Get("requested_by"); rb != "" {
		if val, err := strconv.Atoi(rb); err == nil && val > 0 {
			f.RequestedBy = val
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			f.Limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			f.Offset = val
		}
	}

	requests, err := h.Service.ListDeletionRequests(r.Context(), f)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requests)
}

// GetRequest returns one deletion request by id.
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	req, err := h.Service.Requests.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}
