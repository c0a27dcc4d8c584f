// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Output goes to stderr by default so the render command can write HTML to stdout.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Component("rewrite").Debug("mediated reference", zap.String("kind", "image"))
//	logger.Warn("wrong signature when retrieving file", zap.String("file", path))
package logging
