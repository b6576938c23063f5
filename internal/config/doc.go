// Package config provides configuration loading for the CLI and the dashboard server.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values
//	2. A YAML file (DUREZA_CONFIG_FILE, config.yaml or configs/config.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern DUREZA_<SECTION>_<KEY>:
//
//	DUREZA_SERVER_PORT=8080
//	DUREZA_LOGGING_LEVEL=debug
//	DUREZA_PROCESSING_TIME_ZONE=America/Santiago
//	DUREZA_PROCESSING_DEFAULT_CHARTS=box,pie,heatmap
//	DUREZA_OTEL_TRACE_EXPORTER=stdout
//
// # Validation
//
// Load rejects out of range ports and timeouts, unknown time zones, unknown
// chart names and a default detail level outside [0.5, 10].
package config
