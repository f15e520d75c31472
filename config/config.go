package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Source modes.
const (
	SourceUpstream = "upstream"
	SourceFixture  = "fixture"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Source     SourceConfig     `yaml:"source"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// SourceConfig selects where dashboard data comes from.
type SourceConfig struct {
	Mode string `yaml:"mode"` // "upstream" or "fixture"
}

// UpstreamConfig describes the clinic backend the dashboard talks to.
type UpstreamConfig struct {
	BaseURL         string            `yaml:"base_url"`
	TimeoutSeconds  int               `yaml:"timeout_seconds"`
	Timeout         time.Duration     `yaml:"-"`
	HTTPProxy       string            `yaml:"http_proxy"`
	Token           string            `yaml:"token"`
	Headers         map[string]string `yaml:"headers"`
	RateLimitPerSec float64           `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int               `yaml:"rate_limit_burst"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PeriodConfig overrides one entry of the time-period vocabulary.
type PeriodConfig struct {
	Code   int    `yaml:"code"`
	Label  string `yaml:"label"`
	Detail string `yaml:"detail"`
}

// DashboardConfig tunes the doctor session.
type DashboardConfig struct {
	Timezone               string         `yaml:"timezone"`
	RefreshIntervalSeconds int            `yaml:"refresh_interval_seconds"`
	RefreshInterval        time.Duration  `yaml:"-"`
	ClearErrorOnSuccess    bool           `yaml:"clear_error_on_success"`
	ResumeStoredSession    *bool          `yaml:"resume_stored_session"`
	Periods                []PeriodConfig `yaml:"periods"`
}

// Resume reports whether a previously stored doctor id should be resumed at startup.
func (d DashboardConfig) Resume() bool {
	return d.ResumeStoredSession == nil || *d.ResumeStoredSession
}

// Location returns the configured display timezone, falling back to the local zone.
func (d DashboardConfig) Location() *time.Location {
	if d.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", d.Timezone).Msg("invalid dashboard timezone; using local time")
		return time.Local
	}
	return loc
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	switch cfg.Source.Mode {
	case "":
		cfg.Source.Mode = SourceUpstream
	case SourceUpstream, SourceFixture:
	default:
		return fmt.Errorf("source.mode must be %q or %q, got %q", SourceUpstream, SourceFixture, cfg.Source.Mode)
	}
	if cfg.Source.Mode == SourceUpstream && cfg.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required when source.mode is %q", SourceUpstream)
	}

	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 3
	}
	cfg.Upstream.Timeout = time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second
	if cfg.Upstream.RateLimitPerSec <= 0 {
		cfg.Upstream.RateLimitPerSec = 5
	}
	if cfg.Upstream.RateLimitBurst <= 0 {
		cfg.Upstream.RateLimitBurst = 5
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:clinicdesk.db"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Warn().Msg("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Dashboard.RefreshIntervalSeconds < 0 {
		cfg.Dashboard.RefreshIntervalSeconds = 0
	}
	cfg.Dashboard.RefreshInterval = time.Duration(cfg.Dashboard.RefreshIntervalSeconds) * time.Second

	seen := make(map[int]bool, len(cfg.Dashboard.Periods))
	for _, p := range cfg.Dashboard.Periods {
		if p.Code <= 0 || p.Label == "" {
			return fmt.Errorf("dashboard.periods: code must be positive and label non-empty (got %d %q)", p.Code, p.Label)
		}
		if seen[p.Code] {
			return fmt.Errorf("dashboard.periods: duplicate code %d", p.Code)
		}
		seen[p.Code] = true
	}
	return nil
}
