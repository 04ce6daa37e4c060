// Package config provides 12-factor configuration management for the catalog daemon.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Catalog: data directory, discovery roots and backend, exclusions, taxonomy file
//   - Logging: Log level, output format and optional rotating file
//   - RateLimit: Per-IP or process-wide rate limiting configuration
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - CATALOG_DATA_DIR, CATALOG_SEARCH_BACKEND, CATALOG_ROOTS, CATALOG_SYSTEM_ROOTS
//   - CATALOG_EXCLUDE, CATALOG_TAXONOMY_FILE, CATALOG_PROBE_FAILURES, CATALOG_PROBE_COOLDOWN
//   - LOG_LEVEL, LOG_DEV, LOG_FILE, LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED, RATE_LIMIT_GLOBAL
package config
