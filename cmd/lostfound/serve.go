package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/lostfound/internal/api"
	"github.com/erazemk/lostfound/internal/config"
	"github.com/erazemk/lostfound/internal/imagehost"
	"github.com/erazemk/lostfound/internal/matching"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
	"github.com/erazemk/lostfound/internal/store"
	"github.com/erazemk/lostfound/internal/web"
)

var (
	serveAddr   string
	withMatcher bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web application and JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&withMatcher, "with-matcher", false, "also run the bundled matching service on matcher.addr")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := openDatabase(ctx, cfg.Database, cfg.Auth.AdminUser)
	if err != nil {
		return err
	}
	defer database.Close()
	slog.Info("database ready", "path", cfg.Database.Path)

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	var uploader imagehost.Uploader
	switch cfg.ImageHost.Provider {
	case config.ImageHostImgBB:
		uploader = imagehost.NewImgBB(cfg.ImageHost.URL, cfg.ImageHost.APIKey, slog.Default().With("component", "imgbb"))
	default:
		uploader = imagehost.NewLocal(database, cfg.Server.PublicURL)
	}
	slog.Info("image host selected", "provider", cfg.ImageHost.Provider)

	matchClient := matching.NewClient(cfg.Matching.URL, slog.Default().With("component", "matching"))
	reports := report.NewService(database, uploader, matchClient)
	center := model.PickedLocation{Lat: cfg.Map.DefaultLat, Lng: cfg.Map.DefaultLng}

	apiRouter := api.NewRouter(database, jwtSecret, api.Options{
		TokenTTL:  cfg.Auth.TokenTTL,
		Reports:   reports,
		MapCenter: center,
		MapZoom:   cfg.Map.Zoom,
	})
	webRouter, err := web.NewRouter(database, jwtSecret, web.Options{
		TokenTTL:  cfg.Auth.TokenTTL,
		Reports:   reports,
		Drafts:    report.NewDrafts(cfg.Report.DraftTTL),
		MapCenter: center,
		MapZoom:   cfg.Map.Zoom,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	g, gctx := errgroup.WithContext(ctx)
	runHTTP(gctx, g, "web", newServer(cfg.Server, cfg.Server.Addr, api.LoggingMiddleware(mux)), cfg.Server.ShutdownTimeout)

	if withMatcher {
		handler, err := newMatcherHandler(gctx, database)
		if err != nil {
			return err
		}
		runHTTP(gctx, g, "matcher", newServer(cfg.Server, cfg.Matcher.Addr, api.LoggingMiddleware(handler)), cfg.Server.ShutdownTimeout)
	}

	err = g.Wait()
	slog.Info("server stopped, closing database")
	return err
}

func newServer(sc config.ServerConfig, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: sc.ReadHeaderTimeout,
		ReadTimeout:       sc.ReadTimeout,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
	}
}

// runHTTP serves srv in g and shuts it down gracefully once ctx is done.
func runHTTP(ctx context.Context, g *errgroup.Group, name string, srv *http.Server, shutdownTimeout time.Duration) {
	g.Go(func() error {
		slog.Info("server started", "server", name, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server: %w", name, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down", "server", name)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s server forced to shutdown: %w", name, err)
		}
		return nil
	})
}
