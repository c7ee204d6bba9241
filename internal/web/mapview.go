package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/mapview"
	"github.com/erazemk/lostfound/internal/store"
)

// MapPage handles GET /map. The snapshot is taken once per page load.
func (s *Server) MapPage(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListFoundItems(r.Context(), s.DB, store.Filter{})
	if err != nil {
		slog.Error("failed to list found items for map", "error", err)
	}

	s.Templates.Render(w, "map.html", &struct {
		PageData
		Snapshot mapview.Snapshot
	}{
		PageData: s.pageData(r, "Found items map"),
		Snapshot: mapview.Build(items, s.MapCenter, s.MapZoom),
	})
}

// PickerPage handles GET /picker, the map embedded in the found form.
func (s *Server) PickerPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "picker.html", &struct {
		Snapshot mapview.Snapshot
	}{
		Snapshot: mapview.Build(nil, s.MapCenter, s.MapZoom),
	})
}
