package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all worker configuration.
type Config struct {
	// NCAA feed
	FeedBaseURL        string        `envconfig:"FEED_BASE_URL" default:"https://ncaa-api.henrygd.me"`
	FeedScoreboardPath string        `envconfig:"FEED_SCOREBOARD_PATH" default:"/scoreboard/basketball-men/d1/march-madness"`
	FeedTimeout        time.Duration `envconfig:"FEED_TIMEOUT" default:"30s"`

	// Database
	DatabaseHost           string        `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort           int           `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName           string        `envconfig:"DATABASE_NAME" default:"sportschat"`
	DatabaseUser           string        `envconfig:"DATABASE_USER" default:"sportschat_user"`
	DatabasePassword       string        `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode        string        `envconfig:"DATABASE_SSL_MODE" default:"disable"`
	DatabaseConnectTimeout time.Duration `envconfig:"DATABASE_CONNECT_TIMEOUT" default:"30s"`

	// Redis (optional box score cache)
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler    bool          `envconfig:"ENABLE_SCHEDULER" default:"true"`
	PollInterval       time.Duration `envconfig:"POLL_INTERVAL" default:"5m"`
	StalenessThreshold time.Duration `envconfig:"STALENESS_THRESHOLD" default:"5m"`
	NightlyRefreshCron string        `envconfig:"NIGHTLY_REFRESH_CRON" default:"0 4 * * *"`

	// Caching
	BoxScoreCacheTTL time.Duration `envconfig:"BOX_SCORE_CACHE_TTL" default:"24h"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables. A .env file is
// loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}

	if c.StalenessThreshold <= 0 {
		return fmt.Errorf("STALENESS_THRESHOLD must be positive")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection URL (used by cmd/migrate).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or exits. Use in main() to fail fast.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
