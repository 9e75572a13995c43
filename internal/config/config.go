package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	SessionStorePostgres = "postgres"
	SessionStoreMemory   = "memory"
)

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	AllowedOrigins []string `toml:"allowed_origins"`

	// "postgres" (default) or "memory"
	SessionStore string `toml:"session_store"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// progression
	RateLimitPerMin     int `toml:"rate_limit_per_min"`
	WindowThresholdDays int `toml:"window_threshold_days"`
	CacheTTLSeconds     int `toml:"cache_ttl_seconds"`
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.SessionStore {
	case "", SessionStorePostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return errors.New("postgres host, port and db name must be set")
		}
	case SessionStoreMemory:
	default:
		return fmt.Errorf("unknown session store: %s", c.SessionStore)
	}
	if c.WindowThresholdDays < 0 {
		return fmt.Errorf("invalid window threshold days: %d", c.WindowThresholdDays)
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("invalid rate limit: %d", c.RateLimitPerMin)
	}
	return nil
}

func (c *Config) UsesPostgres() bool {
	return c.SessionStore == "" || c.SessionStore == SessionStorePostgres
}

func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

type Toml struct {
	Development *Config
	DockerDev   *Config `toml:"dockerdev"`
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env %s missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the validated config for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s config: %w", env, err)
	}

	return cfg, nil
}
