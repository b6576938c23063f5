package services

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	apierrors "github.com/nibaldox/dureza-relativa/internal/errors"
	"github.com/nibaldox/dureza-relativa/pkg/contracts"
)

// ClientCounter reports connected websocket clients
type ClientCounter interface {
	ClientCount() int
}

// DatasetSource exposes the loaded dataset, if any
type DatasetSource interface {
	Current(ctx context.Context) (*DatasetInfo, error)
}

// HealthService provides health check functionality
type HealthService struct {
	build     contracts.BuildInfo
	hub       ClientCounter
	datasets  DatasetSource
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// VersionResponse is the build information plus process start time
type VersionResponse struct {
	contracts.BuildInfo
	StartTime time.Time `json:"start_time"`
}

// NewHealthService creates a health service. hub and datasets may be nil.
func NewHealthService(build contracts.BuildInfo, hub ClientCounter, datasets DatasetSource, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		build:     build,
		hub:       hub,
		datasets:  datasets,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status with per-service detail.
// A missing dataset is reported but does not make the server unhealthy.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   hs.build.Version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
		Services: map[string]ServiceHealth{
			"websocket": hs.checkWebSocket(),
			"dataset":   hs.checkDataset(ctx),
		},
	}

	for _, service := range status.Services {
		if service.Status == "error" {
			status.Status = "degraded"
		}
	}

	hs.logger.DebugContext(ctx, "Health check completed", slog.String("status", status.Status))
	return status
}

// Version returns the build information of the running server
func (hs *HealthService) Version() VersionResponse {
	return VersionResponse{BuildInfo: hs.build, StartTime: hs.startTime.UTC()}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: "disabled"}
	}
	return ServiceHealth{Status: "ok", Message: plural(hs.hub.ClientCount(), "client")}
}

func (hs *HealthService) checkDataset(ctx context.Context) ServiceHealth {
	if hs.datasets == nil {
		return ServiceHealth{Status: "disabled"}
	}
	info, err := hs.datasets.Current(ctx)
	switch {
	case errors.Is(err, apierrors.ErrNoDataset):
		return ServiceHealth{Status: "empty", Message: err.Error()}
	case err != nil:
		return ServiceHealth{Status: "error", Message: err.Error()}
	}
	return ServiceHealth{Status: "ok", Message: info.Name + ": " + plural(info.Summary.TotalRecords, "record")}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
