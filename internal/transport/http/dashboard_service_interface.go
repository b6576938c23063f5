package http

import (
	"context"
	"io"

	"github.com/nibaldox/dureza-relativa/internal/charts"
	"github.com/nibaldox/dureza-relativa/internal/dataprocessing"
	"github.com/nibaldox/dureza-relativa/internal/services"
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dataset operations behind the API
type DashboardServiceInterface interface {
	Upload(ctx context.Context, r io.Reader, name string) (*services.DatasetInfo, error)
	Current(ctx context.Context) (*services.DatasetInfo, error)
	Records(ctx context.Context, filters dataprocessing.FilterOptions) ([]domain.WellRecord, error)
	Charts(ctx context.Context, filters dataprocessing.FilterOptions, opts charts.Options) (*services.ChartSet, error)
	Chart(ctx context.Context, kind charts.Kind, filters dataprocessing.FilterOptions, detailLevel float64) (*charts.Chart, error)
}
