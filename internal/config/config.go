// Package config holds the storefront's runtime settings.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/VedantYeola/Wear-Story/internal/service"
	pkgconfig "github.com/VedantYeola/Wear-Story/pkg/config"
	"github.com/VedantYeola/Wear-Story/pkg/database"
	"github.com/VedantYeola/Wear-Story/pkg/tracing"
)

// Backend and feed selectors.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"

	FeedPostgres = "postgres"
	FeedKafka    = "kafka"
	FeedNone     = "none"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort       int           `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	CORSOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Catalog source: postgres or memory (bundled collection, no database).
	CatalogBackend string `env:"CATALOG_BACKEND" envDefault:"postgres"`
	// Change notification: postgres (LISTEN), kafka or none.
	ChangeFeed string `env:"CATALOG_CHANGE_FEED" envDefault:"postgres"`

	// Cart and wishlist slots: redis or memory.
	SnapshotBackend string        `env:"SNAPSHOT_BACKEND" envDefault:"redis"`
	SnapshotTTL     time.Duration `env:"SNAPSHOT_TTL" envDefault:"720h"`

	// PostgreSQL
	Postgres           database.PostgresConfig
	RunMigrations      bool          `env:"DATABASE_MIGRATE" envDefault:"true"`
	SlowQueryThreshold time.Duration `env:"LOG_SLOW_QUERY" envDefault:"500ms"`
	// ActivitySink writes activity entries to user_activity_logs.
	ActivitySink bool `env:"ACTIVITY_SINK_ENABLED" envDefault:"true"`

	// Redis
	Redis database.RedisConfig

	// Kafka
	KafkaBrokers      []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaGroupPrefix  string   `env:"KAFKA_GROUP_PREFIX" envDefault:"storefront-catalog"`
	PublishItemEvents bool     `env:"KAFKA_PUBLISH_ITEM_EVENTS" envDefault:"false"`

	// Sessions and checkout
	SessionIdleTTL          time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	CheckoutProcessingDelay time.Duration `env:"CHECKOUT_PROCESSING_DELAY" envDefault:"2s"`
	CheckoutSuccessDelay    time.Duration `env:"CHECKOUT_SUCCESS_DELAY" envDefault:"2s"`
	AssistantMaxHistory     int           `env:"ASSISTANT_MAX_HISTORY" envDefault:"50"`
	// Stylist messages per second per session; 0 disables the limit.
	AssistantRateLimit float64 `env:"ASSISTANT_RATE_LIMIT" envDefault:"0.5"`
	AssistantRateBurst int     `env:"ASSISTANT_RATE_BURST" envDefault:"5"`

	// Gemini. An empty key runs the assistant on local rules only.
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL string        `env:"GEMINI_BASE_URL"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	GeminiTimeout time.Duration `env:"GEMINI_TIMEOUT" envDefault:"20s"`

	// Admin passphrase, bcrypt-hashed. Empty locks the admin API.
	AdminPassphraseHash string `env:"ADMIN_PASSPHRASE_HASH"`

	Tracing tracing.Config

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !slices.Contains([]string{BackendPostgres, BackendMemory}, c.CatalogBackend) {
		return fmt.Errorf("CATALOG_BACKEND must be postgres or memory, got %q", c.CatalogBackend)
	}
	if !slices.Contains([]string{FeedPostgres, FeedKafka, FeedNone}, c.ChangeFeed) {
		return fmt.Errorf("CATALOG_CHANGE_FEED must be postgres, kafka or none, got %q", c.ChangeFeed)
	}
	if c.ChangeFeed == FeedPostgres && c.CatalogBackend != BackendPostgres {
		return fmt.Errorf("CATALOG_CHANGE_FEED=postgres requires CATALOG_BACKEND=postgres")
	}
	if !slices.Contains([]string{BackendRedis, BackendMemory}, c.SnapshotBackend) {
		return fmt.Errorf("SNAPSHOT_BACKEND must be redis or memory, got %q", c.SnapshotBackend)
	}
	if c.UsesPostgres() && c.Postgres.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.UsesKafka() && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.CheckoutProcessingDelay < 0 || c.CheckoutSuccessDelay < 0 {
		return fmt.Errorf("checkout delays must not be negative")
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	if c.AssistantRateLimit < 0 || c.AssistantRateBurst < 1 {
		return fmt.Errorf("ASSISTANT_RATE_LIMIT must be >= 0 and ASSISTANT_RATE_BURST >= 1")
	}
	if c.AssistantMaxHistory < 2 {
		return fmt.Errorf("ASSISTANT_MAX_HISTORY must be at least 2, got %d", c.AssistantMaxHistory)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.Tracing.SampleRate)
	}
	return nil
}

// UsesPostgres reports whether any component needs the database.
func (c *Config) UsesPostgres() bool {
	return c.CatalogBackend == BackendPostgres
}

// UsesKafka reports whether any component needs the brokers.
func (c *Config) UsesKafka() bool {
	return c.ChangeFeed == FeedKafka || c.PublishItemEvents
}

// Session maps the session settings onto the service configuration.
func (c *Config) Session() service.SessionConfig {
	return service.SessionConfig{
		IdleTTL:         c.SessionIdleTTL,
		ProcessingDelay: c.CheckoutProcessingDelay,
		SuccessDelay:    c.CheckoutSuccessDelay,
		MaxHistory:      c.AssistantMaxHistory,
	}
}
