package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
	"github.com/erazemk/lostfound/internal/store"
)

// LostHandler handles lost-item endpoints.
type LostHandler struct {
	DB      *sql.DB
	Reports *report.Service
}

// List handles GET /api/lost.
func (h *LostHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := store.ListLostItems(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("failed to list lost items", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []model.LostItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/lost/{id}.
func (h *LostHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetLostItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get lost item", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "lost item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/lost.
func (h *LostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in report.LostInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Reports.SubmitLost(r.Context(), in, auth.SessionFrom(r.Context()).UserID())
	if err != nil {
		submitError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// SetStatus handles PUT /api/lost/{id}/status.
func (h *LostHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	status, ok := readStatus(w, r)
	if !ok {
		return
	}

	updated, err := store.SetLostItemStatus(r.Context(), h.DB, id, status)
	if err != nil {
		slog.Error("failed to set lost item status", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !updated {
		jsonError(w, http.StatusNotFound, "lost item not found")
		return
	}

	slog.Info("lost item status changed", "user", auth.SessionFrom(r.Context()).Claims.Username, "item", id, "status", status)
	jsonResponse(w, http.StatusOK, map[string]string{"id": id, "status": status})
}
