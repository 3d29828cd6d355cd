// Package config provides application configuration loaded from layered
// sources: built-in defaults, an optional YAML file and environment variables
// (highest precedence). It centralizes server timeouts, logging, database
// selection, rate limiting, feed ranking parameters and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable pointing at an optional
// YAML configuration file.
const ConfigPathEnvVar = "CONFIG_PATH"

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool          `koanf:"enable_hsts"`
	HSTSMaxAge time.Duration `koanf:"hsts_max_age"`
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    `koanf:"enabled"`      // OTEL_ENABLED
	Endpoint    string  `koanf:"endpoint"`     // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    `koanf:"insecure"`     // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  `koanf:"service_name"` // OTEL_SERVICE_NAME
	SampleRatio float64 `koanf:"sample_ratio"` // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ScoreConfig holds the weights of the recommendation score:
//
//	TagWeight*matched_tags + AuthorWeight*[preferred author]
//	  + likes/LikeDivisor + retweets/RetweetDivisor + comments/CommentDivisor
type ScoreConfig struct {
	TagWeight      float64 `koanf:"tag_weight"`
	AuthorWeight   float64 `koanf:"author_weight"`
	LikeDivisor    float64 `koanf:"like_divisor"`
	RetweetDivisor float64 `koanf:"retweet_divisor"`
	CommentDivisor float64 `koanf:"comment_divisor"`
}

// FeedConfig bounds feed, recommendation and trend requests.
type FeedConfig struct {
	DefaultLimit  int           `koanf:"default_limit"`  // FEED_DEFAULT_LIMIT
	MaxLimit      int           `koanf:"max_limit"`      // FEED_MAX_LIMIT
	CandidatePool int           `koanf:"candidate_pool"` // RECOMMEND_CANDIDATE_POOL
	TopTags       int           `koanf:"top_tags"`       // RECOMMEND_TOP_TAGS
	TopAuthors    int           `koanf:"top_authors"`    // RECOMMEND_TOP_AUTHORS
	TrendWindow   time.Duration `koanf:"trend_window"`   // TREND_DEFAULT_WINDOW
	TrendLimit    int           `koanf:"trend_limit"`    // TREND_DEFAULT_LIMIT
	Score         ScoreConfig   `koanf:"score"`
}

// BreakerConfig configures the circuit breaker guarding user lookups.
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`      // half-open trial requests
	Interval         time.Duration `koanf:"interval"`          // closed-state count reset
	Timeout          time.Duration `koanf:"timeout"`           // open -> half-open
	FailureThreshold uint32        `koanf:"failure_threshold"` // consecutive failures to trip
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	MaxHeaderBytes    int           `koanf:"max_header_bytes"`
	GinMode           string        `koanf:"gin_mode"` // debug|release|test
	RequestTimeout    time.Duration `koanf:"request_timeout"`

	// Logging / Docs
	LogLevel       string `koanf:"log_level"` // debug|info|warn|error|fatal|panic
	LogPretty      bool   `koanf:"log_pretty"`
	SwaggerEnabled bool   `koanf:"swagger_enabled"`
	APIBasePath    string `koanf:"api_base_path"`

	// Storage
	DBDriver string `koanf:"db_driver"` // sqlite|postgres
	DBPath   string `koanf:"db_path"`   // SQLite file
	DBDSN    string `koanf:"db_dsn"`    // Postgres DSN

	// Rate limiting
	RateRPS   float64 `koanf:"rate_rps"`
	RateBurst int     `koanf:"rate_burst"`

	// Web protection
	CORS     CORSConfig     `koanf:"cors"`
	Security SecurityConfig `koanf:"security"`

	// Idempotency
	IdempotencyTTL time.Duration `koanf:"idempotency_ttl"`

	Feed    FeedConfig    `koanf:"feed"`
	Breaker BreakerConfig `koanf:"breaker"`

	// Observability
	OTEL OTELConfig `koanf:"otel"`
}

// Defaults returns the built-in configuration, the lowest layer.
func Defaults() Config {
	return Config{
		Port:              "8080",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		GinMode:           "release",
		RequestTimeout:    5 * time.Second,

		LogLevel:    "info",
		APIBasePath: "/api/v1",

		DBDriver: "sqlite",
		DBPath:   "social.db",

		RateRPS:   5.0,
		RateBurst: 10,

		Security: SecurityConfig{HSTSMaxAge: 180 * 24 * time.Hour},

		IdempotencyTTL: 24 * time.Hour,

		Feed: FeedConfig{
			DefaultLimit:  20,
			MaxLimit:      50,
			CandidatePool: 200,
			TopTags:       5,
			TopAuthors:    3,
			TrendWindow:   24 * time.Hour,
			TrendLimit:    10,
			Score: ScoreConfig{
				TagWeight:      3,
				AuthorWeight:   5,
				LikeDivisor:    10,
				RetweetDivisor: 20,
				CommentDivisor: 30,
			},
		},
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},

		OTEL: OTELConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			ServiceName: "go-social-feed",
			SampleRatio: 1.0,
		},
	}
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load layers defaults, the optional CONFIG_PATH YAML file and the
// environment, then normalizes and validates the result.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if err := coerceEnvStrings(k); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.GinMode = strings.ToLower(strings.TrimSpace(cfg.GinMode))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.APIBasePath = normalizeBasePath(cfg.APIBasePath)
}

// Validate reports the first invalid setting.
func (cfg Config) Validate() error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if cfg.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be > 0")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case "sqlite":
		if strings.TrimSpace(cfg.DBPath) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DBDSN) == "" {
			return errors.New("DB_DSN must not be empty when DB_DRIVER=postgres")
		}
	default:
		return errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	f := cfg.Feed
	if f.DefaultLimit < 1 || f.MaxLimit < 1 || f.DefaultLimit > f.MaxLimit {
		return errors.New("FEED_DEFAULT_LIMIT must be in [1, FEED_MAX_LIMIT]")
	}
	if f.CandidatePool < 1 {
		return errors.New("RECOMMEND_CANDIDATE_POOL must be >= 1")
	}
	if f.TopTags < 1 || f.TopAuthors < 1 {
		return errors.New("RECOMMEND_TOP_TAGS and RECOMMEND_TOP_AUTHORS must be >= 1")
	}
	if f.TrendWindow <= 0 || f.TrendLimit < 1 {
		return errors.New("TREND_DEFAULT_WINDOW and TREND_DEFAULT_LIMIT must be positive")
	}
	s := f.Score
	if s.TagWeight < 0 || s.AuthorWeight < 0 {
		return errors.New("score weights must be >= 0")
	}
	if s.LikeDivisor <= 0 || s.RetweetDivisor <= 0 || s.CommentDivisor <= 0 {
		return errors.New("score divisors must be > 0")
	}
	if cfg.Breaker.FailureThreshold < 1 || cfg.Breaker.Timeout <= 0 {
		return errors.New("DIRECTORY_BREAKER_FAILURES must be >= 1 and DIRECTORY_BREAKER_TIMEOUT > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

// envKeys maps supported environment variables to koanf paths. Anything not
// listed is ignored.
var envKeys = map[string]string{
	"PORT":                "port",
	"READ_TIMEOUT":        "read_timeout",
	"READ_HEADER_TIMEOUT": "read_header_timeout",
	"WRITE_TIMEOUT":       "write_timeout",
	"IDLE_TIMEOUT":        "idle_timeout",
	"MAX_HEADER_BYTES":    "max_header_bytes",
	"GIN_MODE":            "gin_mode",
	"REQUEST_TIMEOUT":     "request_timeout",

	"LOG_LEVEL":       "log_level",
	"LOG_PRETTY":      "log_pretty",
	"SWAGGER_ENABLED": "swagger_enabled",
	"API_BASE_PATH":   "api_base_path",

	"DB_DRIVER": "db_driver",
	"DB_PATH":   "db_path",
	"DB_DSN":    "db_dsn",

	"RATE_RPS":   "rate_rps",
	"RATE_BURST": "rate_burst",

	"CORS_ALLOWED_ORIGINS": "cors.allowed_origins",
	"ENABLE_HSTS":          "security.enable_hsts",
	"HSTS_MAX_AGE":         "security.hsts_max_age",

	"IDEMPOTENCY_TTL": "idempotency_ttl",

	"FEED_DEFAULT_LIMIT":       "feed.default_limit",
	"FEED_MAX_LIMIT":           "feed.max_limit",
	"RECOMMEND_CANDIDATE_POOL": "feed.candidate_pool",
	"RECOMMEND_TOP_TAGS":       "feed.top_tags",
	"RECOMMEND_TOP_AUTHORS":    "feed.top_authors",
	"TREND_DEFAULT_WINDOW":     "feed.trend_window",
	"TREND_DEFAULT_LIMIT":      "feed.trend_limit",
	"SCORE_TAG_WEIGHT":         "feed.score.tag_weight",
	"SCORE_AUTHOR_WEIGHT":      "feed.score.author_weight",
	"SCORE_LIKE_DIVISOR":       "feed.score.like_divisor",
	"SCORE_RETWEET_DIVISOR":    "feed.score.retweet_divisor",
	"SCORE_COMMENT_DIVISOR":    "feed.score.comment_divisor",

	"DIRECTORY_BREAKER_MAX_REQUESTS": "breaker.max_requests",
	"DIRECTORY_BREAKER_INTERVAL":     "breaker.interval",
	"DIRECTORY_BREAKER_TIMEOUT":      "breaker.timeout",
	"DIRECTORY_BREAKER_FAILURES":     "breaker.failure_threshold",

	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_EXPORTER_OTLP_INSECURE": "otel.insecure",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_TRACES_SAMPLER_ARG":     "otel.sample_ratio",
}

// envTransformFunc maps an environment variable name to its koanf path, or
// "" to skip it.
func envTransformFunc(key string) string {
	return envKeys[strings.ToUpper(key)]
}

var (
	boolPaths  = []string{"log_pretty", "swagger_enabled", "security.enable_hsts", "otel.enabled", "otel.insecure"}
	slicePaths = []string{"cors.allowed_origins"}
)

// coerceEnvStrings turns env-provided strings into the shapes the struct
// expects: friendly booleans ("yes", "on") and comma separated lists.
func coerceEnvStrings(k *koanf.Koanf) error {
	for _, p := range boolPaths {
		s, ok := k.Get(p).(string)
		if !ok {
			continue
		}
		b, valid := parseBool(s)
		if !valid {
			return fmt.Errorf("%s: invalid boolean %q", p, s)
		}
		if err := k.Set(p, b); err != nil {
			return err
		}
	}
	for _, p := range slicePaths {
		s, ok := k.Get(p).(string)
		if !ok {
			continue
		}
		if err := k.Set(p, splitCSV(s)); err != nil {
			return err
		}
	}
	return nil
}

func parseBool(v string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off", "":
		return false, true
	}
	return false, false
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
