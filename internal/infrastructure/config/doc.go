// Package config provides 12-factor configuration management for the browser
// session backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, gzip)
//   - Logging: Log level, output format and optional rotating file
//   - RateLimit: Per-IP rate limiting configuration
//   - Browser: Search engine, new-tab title, history cap, simulated load delay,
//     blocked hosts, catalog file and seeding
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, SERVER_GZIP
//   - LOG_LEVEL, LOG_DEV, LOG_FILE, LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - BROWSER_SEARCH_URL, BROWSER_NEW_TAB_TITLE, BROWSER_HISTORY_LIMIT,
//     BROWSER_LOAD_DELAY, BROWSER_BLOCKED_HOSTS, BROWSER_CATALOG_PATH,
//     BROWSER_SEED, BROWSER_SUGGESTION_LIMIT, BROWSER_REMOTE_VIEWPORT
package config
