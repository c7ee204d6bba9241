package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/location"
	"github.com/erazemk/lostfound/internal/mapview"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
	"github.com/erazemk/lostfound/internal/store"
)

// FoundHandler handles found-item endpoints.
type FoundHandler struct {
	DB        *sql.DB
	Reports   *report.Service
	MapCenter model.PickedLocation
	MapZoom   int
}

type foundCreated struct {
	Item    *model.FoundItem `json:"item"`
	Verdict *model.Verdict   `json:"verdict"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/found. Optional query parameters: status, and
// mine=1 for the caller's own reports.
func (h *FoundHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := store.ListFoundItems(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("failed to list found items", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []model.FoundItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Pins handles GET /api/found/pins, the map snapshot.
func (h *FoundHandler) Pins(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListFoundItems(r.Context(), h.DB, store.Filter{})
	if err != nil {
		slog.Error("failed to list found items", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, mapview.Build(items, h.MapCenter, h.MapZoom))
}

// Get handles GET /api/found/{id}.
func (h *FoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetFoundItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get found item", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "found item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/found. The body is multipart with fields
// name, lat, lng and one or more photo files; only the first photo is
// read and uploaded. The response carries the matching verdict.
func (h *FoundHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 5*imaging.MaxInputBytes)
	if err := r.ParseMultipartForm(imaging.MaxInputBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "expected a multipart form")
		return
	}

	d := report.NewDraft(auth.SessionFrom(r.Context()).UserID())
	d.Location.Deliver(location.FormMessage(r.FormValue("lat"), r.FormValue("lng")))

	// Extra files are ignored, not validated: nothing keeps or serves them.
	if files := r.MultipartForm.File["photo"]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			jsonError(w, http.StatusBadRequest, "unreadable photo")
			return
		}
		p, err := report.ReadPhoto(f)
		f.Close()
		if err != nil {
			jsonError(w, http.StatusBadRequest, photoError(err))
			return
		}
		d.Photos.Replace(p)
	}

	item, verdict, err := h.Reports.SubmitFound(r.Context(), d, r.FormValue("name"))
	if err != nil {
		submitError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, foundCreated{Item: item, Verdict: verdict})
}

// SetStatus handles PUT /api/found/{id}/status.
func (h *FoundHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	status, ok := readStatus(w, r)
	if !ok {
		return
	}

	updated, err := store.SetFoundItemStatus(r.Context(), h.DB, id, status)
	if err != nil {
		slog.Error("failed to set found item status", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !updated {
		jsonError(w, http.StatusNotFound, "found item not found")
		return
	}

	slog.Info("found item status changed", "user", auth.SessionFrom(r.Context()).Claims.Username, "item", id, "status", status)
	jsonResponse(w, http.StatusOK, map[string]string{"id": id, "status": status})
}

func photoError(err error) string {
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return "photo is too large"
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return "photo must be a JPEG, PNG or WebP image"
	}
	return "unreadable photo"
}

func listFilter(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()
	filter := store.Filter{NewestFirst: true}

	if s := q.Get("status"); s != "" {
		if !model.ValidItemStatus(s) {
			return filter, errors.New("invalid status")
		}
		filter.Status = s
	}
	if q.Get("mine") == "1" {
		filter.ReporterID = auth.SessionFrom(r.Context()).UserID()
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.ParseUint(l, 10, 64)
		if err != nil {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = n
	}
	return filter, nil
}

func readStatus(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if !model.ValidItemStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "status must be open, claimed or closed")
		return "", false
	}
	return req.Status, true
}
