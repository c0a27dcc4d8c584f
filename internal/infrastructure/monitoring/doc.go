/*
Package monitoring provides metrics collection for the preview server.

# Overview

Metrics are registered on a per-instance Prometheus registry so several
preview sessions (and tests) can coexist in one process.

# Features

- HTTP request metrics (count, latency) keyed by route template
- Render metrics (count by status, duration)
- Mediated reference counts by element and kind
- Fingerprint fallbacks to the "none" sentinel
- Capability request outcomes by endpoint (served, denied)

All Record* methods are nil-safe so components may run without metrics.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics)
	// ... render ...
	timer.Stop("success")
*/
package monitoring
