package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibaldox/dureza-relativa/internal/charts"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultMaxUploadBytes, cfg.Server.MaxUploadBytes)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, charts.DefaultDetailLevel, cfg.Processing.DefaultDetailLevel)
	assert.Equal(t, "none", cfg.OTel.TraceExporter)
	assert.Equal(t, ":8080", cfg.Address())

	kinds, err := cfg.ChartKinds()
	require.NoError(t, err)
	assert.Equal(t, charts.AllKinds, kinds)
}

func TestLoadFile_FileOverlay(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
processing:
  time_zone: UTC
  default_detail_level: 4.5
  default_charts: [heatmap, box]
logging:
  level: debug
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "keys absent from the file keep their default")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 4.5, cfg.Processing.DefaultDetailLevel)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	kinds, err := cfg.ChartKinds()
	require.NoError(t, err)
	assert.Equal(t, []charts.Kind{charts.KindBox, charts.KindHeatmap}, kinds)
}

func TestLoadFile_EnvWinsOverFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9090\n")
	t.Setenv("DUREZA_SERVER_PORT", "7070")
	t.Setenv("DUREZA_PROCESSING_DEFAULT_CHARTS", "pie,location")
	t.Setenv("DUREZA_SECURITY_RATE_LIMIT_RPS", "5")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, []string{"pie", "location"}, cfg.Processing.DefaultCharts)
	assert.Equal(t, 5.0, cfg.Security.RateLimit.RPS)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "port", content: "server:\n  port: 70000\n"},
		{name: "time zone", content: "processing:\n  time_zone: Mars/Olympus\n"},
		{name: "detail too low", content: "processing:\n  default_detail_level: 0.1\n"},
		{name: "detail too high", content: "processing:\n  default_detail_level: 11\n"},
		{name: "chart name", content: "processing:\n  default_charts: [radar]\n"},
		{name: "trace exporter", content: "otel:\n  trace_exporter: jaeger\n"},
		{name: "upload size", content: "server:\n  max_upload_bytes: 0\n"},
		{name: "malformed yaml", content: "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfigFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
}
