package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/nibaldox/dureza-relativa/internal/services"
)

// HealthReporter is implemented by services.HealthService
type HealthReporter interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	Version() services.VersionResponse
}

// HealthHandler serves liveness and build information. Responses are never cached.
type HealthHandler struct {
	service HealthReporter
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthReporter, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /healthz; anything but "ok" answers 503 so load
// balancers stop routing uploads to the instance
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.HealthCheck(r.Context())
	if status.Status != "ok" {
		h.logger.WarnContext(r.Context(), "Health check degraded", slog.Any("services", status.Services))
		render.Status(r, http.StatusServiceUnavailable)
	}
	w.Header().Set("Cache-Control", "no-store")
	render.JSON(w, r, status)
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	info := h.service.Version()
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Data-Format", info.DataFormat)
	render.JSON(w, r, info)
}
