package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/nibaldox/dureza-relativa/internal/charts"
	"github.com/nibaldox/dureza-relativa/internal/dataprocessing"
	apierrors "github.com/nibaldox/dureza-relativa/internal/errors"
	"github.com/nibaldox/dureza-relativa/internal/infrastructure"
	ws "github.com/nibaldox/dureza-relativa/internal/websocket"
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// Broadcaster pushes events to connected dashboard clients
type Broadcaster interface {
	Broadcast(ctx context.Context, eventType string, data interface{}) error
}

// Dataset is an ingested upload
type Dataset struct {
	ID         string
	Name       string
	UploadedAt time.Time
	Records    []domain.WellRecord
	Warnings   []string
}

// DatasetInfo describes the current dataset without its records
type DatasetInfo struct {
	ID            string                        `json:"id"`
	Name          string                        `json:"name"`
	UploadedAt    time.Time                     `json:"uploaded_at"`
	Summary       dataprocessing.DatasetSummary `json:"summary"`
	Warnings      []string                      `json:"warnings"`
	DefaultRange  *domain.DateRange             `json:"default_range,omitempty"`
	DrillPatterns []string                      `json:"drill_patterns"`
	HasLocation   bool                          `json:"has_location"`
	Has3D         bool                          `json:"has_3d"`
}

// DatasetEvent is broadcast when an upload replaces the dataset
type DatasetEvent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Records  int    `json:"records"`
	Warnings int    `json:"warnings"`
}

// ChartSet is the chart selection built from the filtered dataset
type ChartSet struct {
	DatasetID string         `json:"dataset_id"`
	Records   int            `json:"records"`
	Charts    []charts.Chart `json:"charts"`
}

// DashboardService holds the single in-memory dataset and derives the
// dashboard views from it. An upload replaces the dataset atomically.
type DashboardService struct {
	processor *dataprocessing.Processor
	hub       Broadcaster
	tracer    trace.Tracer
	metrics   *infrastructure.DatasetMetrics
	logger    *slog.Logger

	mu      sync.RWMutex
	current *Dataset
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithBroadcaster announces replaced datasets through b
func WithBroadcaster(b Broadcaster) DashboardOption {
	return func(s *DashboardService) { s.hub = b }
}

// WithTracer opens ingestion and chart spans on tracer
func WithTracer(tracer trace.Tracer) DashboardOption {
	return func(s *DashboardService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics records ingestion and chart metrics
func WithMetrics(metrics *infrastructure.DatasetMetrics) DashboardOption {
	return func(s *DashboardService) { s.metrics = metrics }
}

// WithServiceLogger sets the service logger
func WithServiceLogger(logger *slog.Logger) DashboardOption {
	return func(s *DashboardService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewDashboardService creates a service with no dataset loaded
func NewDashboardService(processor *dataprocessing.Processor, opts ...DashboardOption) *DashboardService {
	if processor == nil {
		processor = dataprocessing.NewProcessor()
	}
	s := &DashboardService{
		processor: processor,
		tracer:    tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = infrastructure.WithComponent(s.logger, "dashboard_service")
	return s
}

// Upload ingests r as the file called name and makes it the current dataset.
// On error the previous dataset stays in place.
func (s *DashboardService) Upload(ctx context.Context, r io.Reader, name string) (*DatasetInfo, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.upload",
		trace.WithAttributes(attribute.String("dataset.name", name)))
	defer span.End()

	format := "unknown"
	if f, err := dataprocessing.DetectFormat(name); err == nil {
		format = string(f)
	}

	start := time.Now()
	table, err := dataprocessing.ReadTable(r, name)
	if err != nil {
		s.metrics.RecordIngestion(ctx, format, 0, 0, time.Since(start), err)
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "Upload could not be read",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil, err
	}

	result, err := s.processor.ProcessTable(ctx, table)
	s.metrics.RecordIngestion(ctx, format, len(table.Rows), recordCount(result), time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "Upload rejected",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil, err
	}

	dataset := &Dataset{
		ID:         uuid.New().String(),
		Name:       name,
		UploadedAt: time.Now().UTC(),
		Records:    result.Records,
		Warnings:   result.Warnings,
	}
	span.SetAttributes(
		attribute.String("dataset.id", dataset.ID),
		attribute.Int("dataset.rows", len(table.Rows)),
		attribute.Int("dataset.records", len(dataset.Records)))

	s.mu.Lock()
	s.current = dataset
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Dataset replaced",
		infrastructure.DatasetAttrs(dataset.ID, name),
		slog.Int("rows", len(table.Rows)),
		slog.Int("records", len(dataset.Records)),
		slog.Int("warnings", len(dataset.Warnings)))

	if s.hub != nil {
		event := DatasetEvent{
			ID:       dataset.ID,
			Name:     dataset.Name,
			Records:  len(dataset.Records),
			Warnings: len(dataset.Warnings),
		}
		if err := s.hub.Broadcast(ctx, ws.TypeDatasetReplaced, event); err != nil {
			s.logger.WarnContext(ctx, "Failed to announce dataset", slog.String("error", err.Error()))
		}
	}

	return describe(dataset), nil
}

// Current describes the loaded dataset
func (s *DashboardService) Current(ctx context.Context) (*DatasetInfo, error) {
	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return describe(dataset), nil
}

// Records returns the current records that pass filters
func (s *DashboardService) Records(ctx context.Context, filters dataprocessing.FilterOptions) ([]domain.WellRecord, error) {
	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return dataprocessing.ApplyFilters(dataset.Records, filters), nil
}

// Charts builds the selected charts over the filtered records. Builders run
// concurrently; the result keeps dashboard order. A nil opts.Kinds selects
// every chart and an empty one none.
func (s *DashboardService) Charts(ctx context.Context, filters dataprocessing.FilterOptions, opts charts.Options) (*ChartSet, error) {
	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}

	kinds := charts.AllKinds
	if opts.Kinds != nil {
		for _, kind := range opts.Kinds {
			if !kind.Valid() {
				return nil, fmt.Errorf("%w: %q", charts.ErrUnknownKind, kind)
			}
		}
		kinds = charts.Normalize(opts.Kinds)
	}

	ctx, span := s.tracer.Start(ctx, "charts.build",
		trace.WithAttributes(
			attribute.String("dataset.id", dataset.ID),
			attribute.Int("charts.count", len(kinds)),
			attribute.Float64("charts.detail_level", opts.DetailLevel)))
	defer span.End()

	records := dataprocessing.ApplyFilters(dataset.Records, filters)
	built := make([]charts.Chart, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			def, err := charts.Build(kind, records, opts.DetailLevel)
			s.metrics.RecordChartBuild(gctx, string(kind), time.Since(start), err)
			if err != nil {
				return fmt.Errorf("build %s chart: %w", kind, err)
			}
			built[i] = charts.Chart{Kind: kind, Definition: def}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	s.logger.DebugContext(ctx, "Charts built",
		infrastructure.DatasetAttrs(dataset.ID, dataset.Name),
		slog.Int("records", len(records)),
		slog.Int("charts", len(built)))

	return &ChartSet{DatasetID: dataset.ID, Records: len(records), Charts: built}, nil
}

// Chart builds a single chart over the filtered records
func (s *DashboardService) Chart(ctx context.Context, kind charts.Kind, filters dataprocessing.FilterOptions, detailLevel float64) (*charts.Chart, error) {
	set, err := s.Charts(ctx, filters, charts.Options{Kinds: []charts.Kind{kind}, DetailLevel: detailLevel})
	if err != nil {
		return nil, err
	}
	return &set.Charts[0], nil
}

func (s *DashboardService) dataset() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apierrors.ErrNoDataset
	}
	return s.current, nil
}

func describe(dataset *Dataset) *DatasetInfo {
	info := &DatasetInfo{
		ID:            dataset.ID,
		Name:          dataset.Name,
		UploadedAt:    dataset.UploadedAt,
		Summary:       dataprocessing.Summarize(dataset.Records),
		Warnings:      dataset.Warnings,
		DrillPatterns: dataprocessing.AvailableDrillPatterns(dataset.Records),
		HasLocation:   dataprocessing.HasLocationData(dataset.Records),
		Has3D:         dataprocessing.Has3DData(dataset.Records),
	}
	if r, ok := dataprocessing.DefaultDateRange(dataset.Records); ok {
		info.DefaultRange = &r
	}
	return info
}

func recordCount(result *domain.ProcessedResult) int {
	if result == nil {
		return 0
	}
	return len(result.Records)
}
