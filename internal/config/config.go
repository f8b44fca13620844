package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	AllowedOrigins []string `toml:"allowed_origins"`

	SessionTTLHours            int `toml:"session_ttl_hours"`
	CalculatorsRateLimitPerMin int `toml:"calculators_rate_limit_per_min"`
	CronRateLimitPerMin        int `toml:"cron_rate_limit_per_min"`
	AnalysisCacheSizeMB        int `toml:"analysis_cache_size_mb"`
	AnalysisCacheExpirySeconds int `toml:"analysis_cache_expiry_seconds"`

	// workouts advance batch
	WorkoutsCronEnabled      bool   `toml:"workouts_cron_enabled"`
	WorkoutsCronSpec         string `toml:"workouts_cron_spec"`
	WorkoutsLookAheadDays    int    `toml:"workouts_look_ahead_days"`
	WorkoutsAdvanceBatchSize int    `toml:"workouts_advance_batch_size"`

	McpEnabled bool `toml:"mcp_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
	Testing     *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "test", "testing":
		cfg = t.Testing
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.setDefaults()
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for the given env.
func Load(env, path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(env, string(content))
}

func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return t.Get(env)
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.CalculatorsRateLimitPerMin <= 0 {
		c.CalculatorsRateLimitPerMin = 60
	}
	if c.CronRateLimitPerMin <= 0 {
		c.CronRateLimitPerMin = 10
	}
	if c.AnalysisCacheSizeMB <= 0 {
		c.AnalysisCacheSizeMB = 16
	}
	if c.AnalysisCacheExpirySeconds <= 0 {
		c.AnalysisCacheExpirySeconds = 3600
	}
	if c.WorkoutsCronSpec == "" {
		// sec min hour dom month dow, daily at 00:05
		c.WorkoutsCronSpec = "0 5 0 * * *"
	}
	if c.WorkoutsLookAheadDays <= 0 {
		c.WorkoutsLookAheadDays = 7
	}
	if c.WorkoutsAdvanceBatchSize <= 0 {
		c.WorkoutsAdvanceBatchSize = 500
	}
}
