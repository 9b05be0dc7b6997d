package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/assetflow/assetflow/internal/repo"
)

// AuditHandler serves audit log endpoints (read-only; the trail is
// append-only and written inside the operations it documents).
type AuditHandler struct {
	Repo *repo.AuditRepo
}

// ListAudit returns audit entries, newest first. Query: action,
// entity_type, entity_id, limit (default 50, max 200), offset.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	f := repo.AuditFilter{Limit: 50}
	if a := r.URL.Query().Get("action"); a != "" {
		f.Action = a
	}
	if et := r.URL.Query().Get("entity_type"); et != "" {
		f.EntityType = et
	}
	if ei := r.URL.Query().Get("entity_id"); ei != "" {
		if val, err := strconv.Atoi(ei); err == nil && val > 0 {
			f.EntityID = val
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

	entries, err := h.Repo.List(r.Context(), f)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
