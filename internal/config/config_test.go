package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lostfound.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "lostfound.sqlite3", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, ImageHostLocal, cfg.ImageHost.Provider)
	assert.Equal(t, "http://localhost:8000", cfg.Matching.URL)
	assert.Equal(t, 3, cfg.Matcher.MaxCandidates)
	assert.Equal(t, time.Hour, cfg.Report.DraftTTL)
	assert.InDelta(t, 52.4862, cfg.Map.DefaultLat, 1e-9)
	assert.InDelta(t, -1.8904, cfg.Map.DefaultLng, 1e-9)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := writeYAML(t, `
server:
  addr: ":9090"
database:
  path: "/tmp/lf.sqlite3"
  busy_timeout: "250ms"
imagehost:
  provider: "imgbb"
  api_key: "from-yaml"
matching:
  url: "http://matcher:8000"
map:
  default_lat: 46.05
  default_lng: 14.5
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LOSTFOUND_IMAGEHOST_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/tmp/lf.sqlite3", cfg.Database.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.BusyTimeout)
	assert.Equal(t, ImageHostImgBB, cfg.ImageHost.Provider)
	assert.Equal(t, "from-env", cfg.ImageHost.APIKey)
	assert.Equal(t, "http://matcher:8000", cfg.Matching.URL)
	assert.InDelta(t, 46.05, cfg.Map.DefaultLat, 1e-9)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_ImgBBNeedsKey(t *testing.T) {
	path := writeYAML(t, `
imagehost:
  provider: "imgbb"
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LOSTFOUND_IMAGEHOST_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestValidate_UnknownProviderAndLevel(t *testing.T) {
	path := writeYAML(t, `
imagehost:
  provider: "s3"
log:
  level: "loud"
`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
	assert.Contains(t, err.Error(), "unknown level")
}

func TestSlogLevel(t *testing.T) {
	level, err := LogConfig{Level: "DEBUG"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
