package matcher

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// NewRouter exposes svc over HTTP.
func NewRouter(svc *Service) http.Handler {
	h := &handler{svc: svc}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /match", h.match)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

type handler struct {
	svc *Service
}

type matchRequest struct {
	ItemID string `json:"itemId"`
}

func (h *handler) match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	req.ItemID = strings.TrimSpace(req.ItemID)
	if req.ItemID == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "itemId is required")
		return
	}

	verdict, err := h.svc.Match(r.Context(), req.ItemID)
	if errors.Is(err, ErrItemNotFound) {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		slog.Error("match failed", "item", req.ItemID, "error", err)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
