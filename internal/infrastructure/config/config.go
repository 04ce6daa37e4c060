package config

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/AppShelf/internal/shared/paths"
	"github.com/kelseyhightower/envconfig"
)

// Search backends
const (
	BackendSpotlight = "spotlight"
	BackendWalk      = "walk"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"7455"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// CatalogConfig holds discovery, persistence and classification settings.
type CatalogConfig struct {
	DataDir       string        `envconfig:"CATALOG_DATA_DIR" default:"~/Library/Application Support/AppShelf"`
	SearchBackend string        `envconfig:"CATALOG_SEARCH_BACKEND" default:"spotlight"`
	Roots         []string      `envconfig:"CATALOG_ROOTS" default:"/Applications,/System/Applications,~/Applications"`
	SystemRoots   []string      `envconfig:"CATALOG_SYSTEM_ROOTS" default:"/System/Applications,/Applications/Utilities"`
	Exclude       []string      `envconfig:"CATALOG_EXCLUDE"`
	TaxonomyFile  string        `envconfig:"CATALOG_TAXONOMY_FILE"`
	ProbeFailures uint32        `envconfig:"CATALOG_PROBE_FAILURES" default:"3"`
	ProbeCooldown time.Duration `envconfig:"CATALOG_PROBE_COOLDOWN" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE"`
	MaxSizeMB   int    `envconfig:"LOG_MAX_SIZE_MB" default:"16"`
	MaxBackups  int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Global            bool `envconfig:"RATE_LIMIT_GLOBAL" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "7455",
			Host: "127.0.0.1",
		},
		Catalog: CatalogConfig{
			DataDir:       paths.DefaultDataDir(),
			SearchBackend: BackendSpotlight,
			Roots:         paths.DefaultRoots(),
			SystemRoots:   paths.DefaultSystemRoots(),
			ProbeFailures: 3,
			ProbeCooldown: 30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
			MaxSizeMB:   16,
			MaxBackups:  3,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}

// Validate checks values envconfig cannot constrain.
func (c *Config) Validate() error {
	switch c.Catalog.SearchBackend {
	case BackendSpotlight, BackendWalk:
	default:
		return fmt.Errorf("unknown search backend %q", c.Catalog.SearchBackend)
	}
	if len(c.Catalog.Roots) == 0 {
		return fmt.Errorf("at least one catalog root is required")
	}
	return nil
}

// Resolve expands "~" in every catalog path against home.
func (c CatalogConfig) Resolve(home string) CatalogConfig {
	c.DataDir = paths.Expand(c.DataDir, home)
	c.Roots = paths.ExpandAll(c.Roots, home)
	c.SystemRoots = paths.ExpandAll(c.SystemRoots, home)
	c.TaxonomyFile = paths.Expand(c.TaxonomyFile, home)
	return c
}
