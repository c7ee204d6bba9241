package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// ProfilePage handles GET /profile.
func (s *Server) ProfilePage(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	filter := store.Filter{ReporterID: sess.UserID(), NewestFirst: true}

	lost, err := store.ListLostItems(r.Context(), s.DB, filter)
	if err != nil {
		slog.Error("failed to list lost items for profile", "error", err)
	}
	found, err := store.ListFoundItems(r.Context(), s.DB, filter)
	if err != nil {
		slog.Error("failed to list found items for profile", "error", err)
	}

	s.Templates.Render(w, "profile.html", &struct {
		PageData
		Lost  []model.LostItem
		Found []model.FoundItem
	}{
		PageData: s.pageData(r, sess.Claims.Username),
		Lost:     lost,
		Found:    found,
	})
}
