package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	ImageHost ImageHostConfig `yaml:"imagehost"`
	Matching  MatchingConfig  `yaml:"matching"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Report    ReportConfig    `yaml:"report"`
	Map       MapConfig       `yaml:"map"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr"                env:"LOSTFOUND_ADDR"                env-default:":8080"`
	PublicURL         string        `yaml:"public_url"          env:"LOSTFOUND_PUBLIC_URL"          env-default:"http://localhost:8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"LOSTFOUND_READ_HEADER_TIMEOUT" env-default:"10s"`
	ReadTimeout       time.Duration `yaml:"read_timeout"        env:"LOSTFOUND_READ_TIMEOUT"        env-default:"30s"`
	WriteTimeout      time.Duration `yaml:"write_timeout"       env:"LOSTFOUND_WRITE_TIMEOUT"       env-default:"120s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"LOSTFOUND_IDLE_TIMEOUT"        env-default:"120s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"LOSTFOUND_SHUTDOWN_TIMEOUT"    env-default:"5s"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path        string        `yaml:"path"         env:"LOSTFOUND_DB"              env-default:"lostfound.sqlite3"`
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"LOSTFOUND_DB_BUSY_TIMEOUT" env-default:"5s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOSTFOUND_LOG_LEVEL" env-default:"info"`
	Path  string `yaml:"path"  env:"LOSTFOUND_LOG_PATH"`
}

// AuthConfig holds session settings.
type AuthConfig struct {
	AdminUser string        `yaml:"admin_user" env:"LOSTFOUND_ADMIN_USER" env-default:"admin"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"LOSTFOUND_TOKEN_TTL"  env-default:"24h"`
}

// Image host providers.
const (
	ImageHostLocal = "local"
	ImageHostImgBB = "imgbb"
)

// ImageHostConfig selects where photos are uploaded.
type ImageHostConfig struct {
	Provider string `yaml:"provider" env:"LOSTFOUND_IMAGEHOST"         env-default:"local"`
	APIKey   string `yaml:"api_key"  env:"LOSTFOUND_IMAGEHOST_API_KEY"`
	URL      string `yaml:"url"      env:"LOSTFOUND_IMAGEHOST_URL"     env-default:"https://api.imgbb.com"`
}

// MatchingConfig points at the matching service used after found reports.
type MatchingConfig struct {
	URL string `yaml:"url" env:"LOSTFOUND_MATCHING_URL" env-default:"http://localhost:8000"`
}

// MatcherConfig configures the bundled reference matching service.
type MatcherConfig struct {
	Addr          string `yaml:"addr"           env:"LOSTFOUND_MATCHER_ADDR"  env-default:":8000"`
	MaxCandidates int    `yaml:"max_candidates" env:"LOSTFOUND_MATCHER_TOP"   env-default:"3"`
	GeminiAPIKey  string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	GeminiModel   string `yaml:"gemini_model"   env:"LOSTFOUND_GEMINI_MODEL"  env-default:"gemini-2.0-flash"`
}

// ReportConfig configures report drafts.
type ReportConfig struct {
	DraftTTL time.Duration `yaml:"draft_ttl" env:"LOSTFOUND_DRAFT_TTL" env-default:"1h"`
}

// MapConfig configures the found-items map.
type MapConfig struct {
	DefaultLat float64 `yaml:"default_lat" env:"LOSTFOUND_MAP_LAT"  env-default:"52.4862"`
	DefaultLng float64 `yaml:"default_lng" env:"LOSTFOUND_MAP_LNG"  env-default:"-1.8904"`
	Zoom       int     `yaml:"zoom"        env:"LOSTFOUND_MAP_ZOOM" env-default:"13"`
}
