// Package middleware provides the HTTP middleware stack of the preview server.
//
// Middleware stack includes:
//   - RequestID: ULID request identifiers echoed in X-Request-ID
//   - Logger: structured access log that never records query strings
//   - CORS: cross-origin access for configured origins only
//   - RateLimit: per-IP token bucket rate limiting
//
// Rate Limiting:
//   - Per-IP tracking with idle-client eviction
//   - Token bucket algorithm (golang.org/x/time/rate)
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.Logger(logger))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
