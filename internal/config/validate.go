package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Validate checks the loaded configuration for values that would only fail
// later at request time.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if _, err := url.ParseRequestURI(c.Server.PublicURL); err != nil {
		errs = append(errs, fmt.Errorf("server.public_url: %w", err))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	switch c.ImageHost.Provider {
	case ImageHostLocal:
	case ImageHostImgBB:
		if c.ImageHost.APIKey == "" {
			errs = append(errs, errors.New("imagehost.api_key is required for imgbb"))
		}
	default:
		errs = append(errs, fmt.Errorf("imagehost.provider: unknown provider %q", c.ImageHost.Provider))
	}

	if _, err := url.ParseRequestURI(c.Matching.URL); err != nil {
		errs = append(errs, fmt.Errorf("matching.url: %w", err))
	}
	if c.Matcher.MaxCandidates < 1 {
		errs = append(errs, errors.New("matcher.max_candidates must be at least 1"))
	}
	if c.Report.DraftTTL <= 0 {
		errs = append(errs, errors.New("report.draft_ttl must be positive"))
	}
	if c.Map.DefaultLat < -90 || c.Map.DefaultLat > 90 || c.Map.DefaultLng < -180 || c.Map.DefaultLng > 180 {
		errs = append(errs, errors.New("map default center is out of range"))
	}

	return errors.Join(errs...)
}

// SlogLevel parses the configured log level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", l.Level)
}
