// Package app wires the dashboard backend: configuration, logging,
// OpenTelemetry, the websocket hub, the services and the chi router.
//
// # Initialization Flow
//
//	1. The caller loads configuration and initializes the logger
//	2. NewApplication sets up OpenTelemetry and the metric instruments
//	3. Services are created around the single in-memory dataset
//	4. Handlers and middleware are mounted on the router
//
// # Middleware Order
//
// RealIP and RequestID apply to every route. /ws and /metrics stay outside
// the rest of the chain; everything else adds OTel, StructuredLogger,
// Recoverer, SecurityHeaders, CORS and the rate limiter, in that order.
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM. Stop drains the HTTP server, closes the
// websocket clients and flushes the telemetry providers. The package never
// calls os.Exit.
package app
