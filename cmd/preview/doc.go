// Package main is the entry point for the document preview server.
//
// The server renders a document to HTML, rewrites every local reference
// into a signed capability URL and serves those URLs back, refusing any
// request whose signature was not issued by the running session.
//
// Commands:
//   - serve [document]: live preview over HTTP
//   - render <document>: print mediated HTML once
//   - version
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Preview a README inside its project
//	./preview serve --project-root . README.md
//
//	# Development mode (colored logs, debug level)
//	./preview --dev serve README.md
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
