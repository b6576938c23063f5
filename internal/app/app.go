package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/nibaldox/dureza-relativa/internal/config"
	"github.com/nibaldox/dureza-relativa/internal/dataprocessing"
	apierrors "github.com/nibaldox/dureza-relativa/internal/errors"
	"github.com/nibaldox/dureza-relativa/internal/infrastructure"
	customMiddleware "github.com/nibaldox/dureza-relativa/internal/middleware"
	"github.com/nibaldox/dureza-relativa/internal/services"
	handlers "github.com/nibaldox/dureza-relativa/internal/transport/http"
	"github.com/nibaldox/dureza-relativa/internal/validation"
	ws "github.com/nibaldox/dureza-relativa/internal/websocket"
	"github.com/nibaldox/dureza-relativa/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	WebSocketHub     *ws.Hub
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	ErrorHandler     *apierrors.ErrorHandler
}

// NewApplication wires the dashboard backend from cfg
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(cfg.OTel, contracts.Version, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()
	return app, nil
}

// initializeServices builds the hub and the services around the single dataset
func (a *Application) initializeServices() error {
	loc, err := a.Config.Location()
	if err != nil {
		return err
	}

	datasetMetrics, err := infrastructure.NewDatasetMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create dataset metrics: %w", err)
	}

	hubMetrics, err := ws.NewHubMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}

	a.WebSocketHub = ws.NewHub(a.Logger, hubMetrics)

	processor := dataprocessing.NewProcessor(
		dataprocessing.WithLogger(a.Logger),
		dataprocessing.WithLocation(loc),
	)

	a.DashboardService = services.NewDashboardService(processor,
		services.WithBroadcaster(a.WebSocketHub),
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithMetrics(datasetMetrics),
		services.WithServiceLogger(a.Logger),
	)

	a.HealthService = services.NewHealthService(contracts.ReadBuildInfo(), a.WebSocketHub, a.DashboardService, a.Logger)
	return nil
}

// setupRouter configures routes and middleware.
// The websocket and metrics endpoints stay outside the full middleware chain
// since the chain wraps the ResponseWriter.
func (a *Application) setupRouter() error {
	loc, err := a.Config.Location()
	if err != nil {
		return err
	}
	kinds, err := a.Config.ChartKinds()
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestID)
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	r.Handle(config.WebSocketEndpoint, wsHandler)
	r.Handle(config.MetricsEndpoint, handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return err
	}

	options := validation.NewOptionsValidator(loc, a.Config.Processing.DefaultDetailLevel, kinds)
	dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, options, a.Config.Server.MaxUploadBytes, a.Logger, a.ErrorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	clientLogHandler := handlers.NewClientLogHandler(a.Logger, a.ErrorHandler)

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(a.ErrorHandler.Recoverer)
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Get(config.HealthEndpoint, healthHandler.HealthCheck)

		api := dashboardHandler.Routes()
		api.Post("/client-logs", clientLogHandler.Handle)
		api.Get("/version", healthHandler.Version)

		apiMiddleware := []func(http.Handler) http.Handler{render.SetContentType(render.ContentTypeJSON)}
		if a.Config.Server.WriteTimeout > 0 {
			apiMiddleware = append(apiMiddleware, middleware.Timeout(a.Config.Server.WriteTimeout))
		}
		r.With(apiMiddleware...).Mount(config.APIBasePath, api)
	})

	a.Router = r
	return nil
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", customMiddleware.RequestIDHeader},
		ExposedHeaders: []string{customMiddleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the hub and the HTTP server; a listener failure calls cancel
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.WebSocketHub.Start()

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level),
		slog.Bool("metrics", a.OTelProviders.PrometheusHTTP != nil))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	a.WebSocketHub.Stop()

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}
