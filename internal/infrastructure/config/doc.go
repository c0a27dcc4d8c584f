// Package config provides 12-factor configuration management for the preview server.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for the serve and render commands.
//
// Configuration Sections:
//   - Server: HTTP listener settings (port, host, shutdown timeout)
//   - Preview: Document, project, source extension, fingerprint algorithm, theme
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - CORS: Allowed origins for the embedded browser
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Preview listening on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - PREVIEW_DOCUMENT, PREVIEW_PROJECT_ROOT, PREVIEW_PROJECT_NAME, PREVIEW_PROJECT_URL
//   - PREVIEW_SOURCE_EXT, PREVIEW_HASH, PREVIEW_THEME, PREVIEW_DARK, PREVIEW_SANITIZE, PREVIEW_IMAGES_DIR
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ORIGINS
package config
