package config

// Application constants
const (
	AppName = "dureza-relativa"

	// EnvPrefix namespaces every environment variable, e.g. DUREZA_SERVER_PORT
	EnvPrefix = "DUREZA"

	DefaultLogFile   = "logs/app.log"
	DefaultExportDir = "exports"

	// 32MB
	DefaultMaxUploadBytes int64 = 32 << 20

	// Heat scatter detail level bounds and slider step
	MinDetailLevel  = 0.5
	MaxDetailLevel  = 10.0
	DetailLevelStep = 0.5
)

// API routes
const (
	APIBasePath       = "/api"
	DatasetsEndpoint  = "/api/datasets"
	ChartsEndpoint    = "/api/charts"
	RecordsEndpoint   = "/api/records"
	ClientLogEndpoint = "/api/client-logs"
	VersionEndpoint   = "/api/version"
	HealthEndpoint    = "/healthz"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
