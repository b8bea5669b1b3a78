/*
Package monitoring provides Prometheus metrics for the browser backend.

# Overview

Each Metrics value owns a private registry, so several servers (and tests)
can live in one process. HTTP traffic is recorded by a Gin middleware; the
session layer records windows, tabs, navigations, page loads, viewport
reports and bookmark toggles.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics)
	// ... page finishes loading ...
	timer.Stop("loaded")
*/
package monitoring
