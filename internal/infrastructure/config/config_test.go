package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "7455", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	// Catalog config
	assert.Equal(t, BackendSpotlight, cfg.Catalog.SearchBackend)
	assert.Equal(t, []string{"/Applications", "/System/Applications", "~/Applications"}, cfg.Catalog.Roots)
	assert.Equal(t, []string{"/System/Applications", "/Applications/Utilities"}, cfg.Catalog.SystemRoots)
	assert.Equal(t, uint32(3), cfg.Catalog.ProbeFailures)
	assert.Equal(t, 30*time.Second, cfg.Catalog.ProbeCooldown)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Empty(t, cfg.Logging.File)

	// Rate limit config
	assert.Equal(t, 50, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 100, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Catalog.DataDir, cfg.Catalog.DataDir)
	assert.Equal(t, def.Catalog.Roots, cfg.Catalog.Roots)
	assert.Equal(t, def.Catalog.SystemRoots, cfg.Catalog.SystemRoots)
	assert.Equal(t, def.RateLimit, cfg.RateLimit)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                   "9000",
		"HOST":                   "0.0.0.0",
		"CATALOG_DATA_DIR":       "/tmp/shelf",
		"CATALOG_SEARCH_BACKEND": "walk",
		"CATALOG_ROOTS":          "/Applications,/opt/apps",
		"CATALOG_EXCLUDE":        "**/Install*.app",
		"CATALOG_TAXONOMY_FILE":  "~/rules.yaml",
		"CATALOG_PROBE_COOLDOWN": "5s",
		"LOG_LEVEL":              "debug",
		"LOG_DEV":                "true",
		"LOG_FILE":               "/tmp/shelf.log",
		"RATE_LIMIT_RPS":         "500",
		"RATE_LIMIT_BURST":       "1000",
		"RATE_LIMIT_ENABLED":     "false",
	}

	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "/tmp/shelf", cfg.Catalog.DataDir)
	assert.Equal(t, BackendWalk, cfg.Catalog.SearchBackend)
	assert.Equal(t, []string{"/Applications", "/opt/apps"}, cfg.Catalog.Roots)
	assert.Equal(t, []string{"**/Install*.app"}, cfg.Catalog.Exclude)
	assert.Equal(t, "~/rules.yaml", cfg.Catalog.TaxonomyFile)
	assert.Equal(t, 5*time.Second, cfg.Catalog.ProbeCooldown)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "/tmp/shelf.log", cfg.Logging.File)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CATALOG_SEARCH_BACKEND", "locate")

	_, err := Load()
	assert.Error(t, err)
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantPort string
		wantHost string
	}{
		{
			name:     "default values",
			wantPort: "7455",
			wantHost: "127.0.0.1",
		},
		{
			name:     "custom port",
			port:     "9000",
			wantPort: "9000",
			wantHost: "127.0.0.1",
		},
		{
			name:     "custom host",
			host:     "localhost",
			wantPort: "7455",
			wantHost: "localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("PORT")
			os.Unsetenv("HOST")

			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			cfg, err := Load()
			require.NoError(t, err)

			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, tt.wantHost, cfg.Server.Host)
		})
	}
}

func TestCatalogResolve(t *testing.T) {
	c := Default().Catalog
	c.TaxonomyFile = "~/taxonomy.toml"

	r := c.Resolve("/Users/me")

	assert.Equal(t, "/Users/me/Library/Application Support/AppShelf", r.DataDir)
	assert.Equal(t, []string{"/Applications", "/System/Applications", "/Users/me/Applications"}, r.Roots)
	assert.Equal(t, "/Users/me/taxonomy.toml", r.TaxonomyFile)

	// original untouched
	assert.Equal(t, "~/Applications", c.Roots[2])
}
