/*
Package monitoring provides Prometheus metrics for the catalog daemon.

# Overview

Metrics cover HTTP traffic, dispatched commands, catalog refreshes, the
discovery probe, auto-categorization outcomes, metadata writes and WebSocket
streams. Every Metrics value owns a private registry, exposed through Handler.

The type satisfies the observer interfaces of the catalog, discovery and
classify packages, so domain code reports outcomes without importing
Prometheus.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "get_catalog")
	defer timer.Stop("ok")
*/
package monitoring
