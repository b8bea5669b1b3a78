// Package main is the entry point for the Richa browser backend.
//
// The server keeps the state of simulated browser windows (tabs, address
// bar, history, bookmarks) and exposes it to a front-end over REST and
// WebSocket.
//
// Architecture:
//
//	Front-end → REST / WebSocket → session.Manager → session.Controller
//	                                                → viewport adapter
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
//	# Custom catalog of mock sites
//	./server -catalog ./catalog.toml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
