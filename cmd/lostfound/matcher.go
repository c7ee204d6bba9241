package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/lostfound/internal/api"
	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/matcher"
)

var matcherAddr string

var matcherCmd = &cobra.Command{
	Use:   "matcher",
	Short: "Run the bundled matching service",
	Long: `Runs the reference matching service: POST /match with {"itemId": "..."}
ranks open reports of the opposite kind by text similarity and returns a
verdict. When GEMINI_API_KEY is set, a Gemini model reviews each decision.`,
	Args: cobra.NoArgs,
	RunE: runMatcher,
}

func init() {
	matcherCmd.Flags().StringVarP(&matcherAddr, "addr", "a", "", "listen address (overrides matcher.addr)")
}

func runMatcher(cmd *cobra.Command, _ []string) error {
	if matcherAddr != "" {
		cfg.Matcher.Addr = matcherAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.Database.Path, dbOptions(cfg.Database))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	if err := db.EnsureSchema(ctx, database); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	handler, err := newMatcherHandler(ctx, database)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	runHTTP(gctx, g, "matcher", newServer(cfg.Server, cfg.Matcher.Addr, api.LoggingMiddleware(handler)), cfg.Server.ShutdownTimeout)
	return g.Wait()
}

func newMatcherHandler(ctx context.Context, database *sql.DB) (http.Handler, error) {
	var verifier matcher.Verifier
	if cfg.Matcher.GeminiAPIKey != "" {
		gv, err := matcher.NewGeminiVerifier(ctx, cfg.Matcher.GeminiAPIKey, cfg.Matcher.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("creating gemini verifier: %w", err)
		}
		verifier = gv
		slog.Info("gemini verifier enabled", "model", cfg.Matcher.GeminiModel)
	}

	svc := matcher.NewService(matcher.DBSource{DB: database}, verifier, cfg.Matcher.MaxCandidates)
	return matcher.NewRouter(svc), nil
}
