package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
)

// Options carries the API handlers' collaborators.
type Options struct {
	TokenTTL  time.Duration
	Reports   *report.Service
	MapCenter model.PickedLocation
	MapZoom   int
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, TokenTTL: opts.TokenTTL}
	foundHandler := &FoundHandler{DB: db, Reports: opts.Reports, MapCenter: opts.MapCenter, MapZoom: opts.MapZoom}
	lostHandler := &LostHandler{DB: db, Reports: opts.Reports}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Found items: read and report (all roles), status (admin).
	mux.Handle("GET /api/found", authMW(http.HandlerFunc(foundHandler.List)))
	mux.Handle("POST /api/found", authMW(http.HandlerFunc(foundHandler.Create)))
	mux.Handle("GET /api/found/pins", authMW(http.HandlerFunc(foundHandler.Pins)))
	mux.Handle("GET /api/found/{id}", authMW(http.HandlerFunc(foundHandler.Get)))
	mux.Handle("PUT /api/found/{id}/status", authMW(requireAdmin(http.HandlerFunc(foundHandler.SetStatus))))

	// Lost items: same split.
	mux.Handle("GET /api/lost", authMW(http.HandlerFunc(lostHandler.List)))
	mux.Handle("POST /api/lost", authMW(http.HandlerFunc(lostHandler.Create)))
	mux.Handle("GET /api/lost/{id}", authMW(http.HandlerFunc(lostHandler.Get)))
	mux.Handle("PUT /api/lost/{id}/status", authMW(requireAdmin(http.HandlerFunc(lostHandler.SetStatus))))

	return mux
}
