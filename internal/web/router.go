package web

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
	"github.com/erazemk/lostfound/internal/store"
	webembed "github.com/erazemk/lostfound/web"
)

// Options carries the page handlers' collaborators.
type Options struct {
	TokenTTL  time.Duration
	Reports   *report.Service
	Drafts    *report.Drafts
	MapCenter model.PickedLocation
	MapZoom   int
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
		TokenTTL:  opts.TokenTTL,
		Reports:   opts.Reports,
		Drafts:    opts.Drafts,
		MapCenter: opts.MapCenter,
		MapZoom:   opts.MapZoom,
	}

	mux := http.NewServeMux()
	signedIn := func(h http.HandlerFunc) http.Handler { return RequireSession(h) }

	static, err := webembed.StaticFS()
	if err != nil {
		return nil, err
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Public routes.
	mux.HandleFunc("GET /{$}", s.HomePage)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /signup", s.SignupPage)
	mux.HandleFunc("POST /signup", s.SignupSubmit)
	mux.HandleFunc("POST /logout", s.Logout)
	mux.HandleFunc("GET /map", s.MapPage)
	mux.HandleFunc("GET /picker", s.PickerPage)
	mux.HandleFunc("GET /match", s.MatchEmpty)
	mux.HandleFunc("GET /photos/{id}", s.PhotoGet)

	// Reporting requires an account.
	mux.Handle("GET /found", signedIn(s.FoundPage))
	mux.Handle("POST /found", signedIn(s.FoundSubmit))
	mux.Handle("POST /found/drafts/{id}/pin", signedIn(s.PinSubmit))
	mux.Handle("POST /found/drafts/{id}/photos", signedIn(s.PhotosSubmit))
	mux.Handle("GET /found/drafts/{id}/photos/{n}", signedIn(s.PhotoPreview))
	mux.Handle("GET /lost", signedIn(s.LostPage))
	mux.Handle("POST /lost", signedIn(s.LostSubmit))
	mux.Handle("GET /match/{draft}", signedIn(s.MatchPage))
	mux.Handle("GET /profile", signedIn(s.ProfilePage))

	return SessionMiddleware(jwtSecret, db)(mux), nil
}

// HomePage handles GET /.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r, "Lost and Found")
	s.Templates.Render(w, "home.html", &data)
}

// PhotoGet handles GET /photos/{id}, serving photos kept by the local
// image host.
func (s *Server) PhotoGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetPhoto(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get photo", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}
