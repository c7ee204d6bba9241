package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/report"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// submitError maps a submission failure to a response.
func submitError(w http.ResponseWriter, err error) {
	var verr *report.ValidationError
	var serr *report.StageError
	switch {
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, report.ErrSubmitInProgress):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.As(err, &serr) && serr.Stage == report.StagePersist:
		jsonError(w, http.StatusInternalServerError, serr.Error())
	case errors.As(err, &serr):
		jsonError(w, http.StatusBadGateway, serr.Error())
	default:
		slog.Error("unexpected submit error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
