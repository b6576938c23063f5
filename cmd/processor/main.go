package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nibaldox/dureza-relativa/internal/charts"
	"github.com/nibaldox/dureza-relativa/internal/config"
	"github.com/nibaldox/dureza-relativa/internal/dataprocessing"
	apierrors "github.com/nibaldox/dureza-relativa/internal/errors"
	"github.com/nibaldox/dureza-relativa/internal/exporter"
	"github.com/nibaldox/dureza-relativa/internal/infrastructure"
	"github.com/nibaldox/dureza-relativa/internal/validation"
	"github.com/nibaldox/dureza-relativa/pkg/contracts"
)

const (
	chartsFileName = "charts"
	csvFileName    = "records.csv"
	xlsxFileName   = "records.xlsx"
)

// cliOptions holds the parsed command line
type cliOptions struct {
	in         string
	out        string
	start      string
	end        string
	patterns   string
	detail     string
	charts     *string
	format     string
	configFile string
	exportCSV  bool
	exportXLSX bool
	version    bool
}

// chartReport is the document written to the output directory
type chartReport struct {
	Source      string                        `json:"source"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Version     string                        `json:"version"`
	Records     int                           `json:"records"`
	Warnings    []string                      `json:"warnings"`
	Summary     dataprocessing.DatasetSummary `json:"summary"`
	Charts      []charts.Chart                `json:"charts"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("Processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (*cliOptions, error) {
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.SetOutput(output)

	opts := &cliOptions{}
	fs.StringVar(&opts.in, "in", "", "input CSV or XLSX file with drilling records")
	fs.StringVar(&opts.out, "out", "", "output directory (defaults to processing.export_dir, then the working directory)")
	fs.StringVar(&opts.start, "start", "", "first day to keep, YYYY-MM-DD")
	fs.StringVar(&opts.end, "end", "", "last day to keep, YYYY-MM-DD")
	fs.StringVar(&opts.patterns, "patterns", "", "comma separated drill patterns to keep")
	fs.StringVar(&opts.detail, "detail", "", "chart detail level between 0.5 and 10")
	chartList := fs.String("charts", "", "comma separated charts: box, pie, location, heatmap, scatter3d")
	fs.StringVar(&opts.format, "format", "json", "chart encoding: json or msgpack")
	fs.StringVar(&opts.configFile, "config", "", "configuration file (defaults to DUREZA_CONFIG_FILE or config.yaml)")
	fs.BoolVar(&opts.exportCSV, "export-csv", false, "also write the filtered records as CSV")
	fs.BoolVar(&opts.exportXLSX, "export-xlsx", false, "also write the filtered records as XLSX")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// -charts= selects no chart, an absent flag keeps the configured defaults
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "charts" {
			opts.charts = chartList
		}
	})

	if !opts.version && opts.in == "" {
		return nil, errors.New("-in is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, stdout)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if opts.version {
		fmt.Fprintln(stdout, contracts.ReadBuildInfo())
		return nil
	}

	var cfg *config.Config
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()
	logger = infrastructure.WithComponent(logger, "processor")
	ctx = infrastructure.EnsureTraceID(ctx)

	outDir := opts.out
	if outDir == "" {
		outDir = cfg.Processing.ExportDir
	}
	if outDir == "" {
		outDir = "."
	}

	fileValidator := validation.NewFileValidator(logger)
	format, err := fileValidator.ValidateInputFile(opts.in)
	if err != nil {
		return err
	}
	if err := fileValidator.ValidateOutputDirectory(outDir); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	kinds, err := cfg.ChartKinds()
	if err != nil {
		return err
	}

	display, err := resolveDisplay(opts, loc, cfg.Processing.DefaultDetailLevel, kinds)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Processing drilling records",
		slog.String("input", opts.in),
		slog.String("format", string(format)),
		slog.String("output_dir", outDir),
		slog.String("encoding", string(display.Encoding)))

	started := time.Now()
	table, err := dataprocessing.ReadFile(opts.in)
	if err != nil {
		return err
	}

	processor := dataprocessing.NewProcessor(
		dataprocessing.WithLogger(logger),
		dataprocessing.WithLocation(loc),
	)
	result, err := processor.ProcessTable(ctx, table)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		logger.WarnContext(ctx, "Row skipped", slog.String("warning", warning))
	}

	records := dataprocessing.ApplyFilters(result.Records, display.Filters)
	chartSet, err := charts.BuildSet(records, display.Charts)
	if err != nil {
		return fmt.Errorf("failed to build charts: %w", err)
	}

	report := chartReport{
		Source:      filepath.Base(opts.in),
		GeneratedAt: time.Now().UTC(),
		Version:     contracts.Version,
		Records:     len(records),
		Warnings:    result.Warnings,
		Summary:     dataprocessing.Summarize(records),
		Charts:      chartSet,
	}
	chartsPath := filepath.Join(outDir, chartsFileName+"."+display.Encoding.Extension())
	if err := writeReport(chartsPath, display.Encoding, report); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %d charts for %d of %d records to %s\n",
		len(chartSet), len(records), len(result.Records), chartsPath)

	if opts.exportCSV {
		path, err := exporter.NewCSVWriter(outDir, logger).WriteRecords(csvFileName, records)
		if err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		fmt.Fprintf(stdout, "Exported records to %s\n", path)
	}
	if opts.exportXLSX {
		path, err := exporter.NewXLSXWriter(outDir, logger).WriteRecords(xlsxFileName, records)
		if err != nil {
			return fmt.Errorf("failed to export XLSX: %w", err)
		}
		fmt.Fprintf(stdout, "Exported records to %s\n", path)
	}

	logger.InfoContext(ctx, "Processing complete",
		slog.Int("records", len(records)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Int("charts", len(chartSet)),
		slog.Duration("duration", time.Since(started)))
	return nil
}

// resolveDisplay validates the filter and chart flags
func resolveDisplay(opts *cliOptions, loc *time.Location, defaultDetail float64, defaultKinds []charts.Kind) (validation.DisplayOptions, error) {
	req := validation.DisplayRequest{
		Start:    opts.start,
		End:      opts.end,
		Patterns: validation.SplitList(opts.patterns),
		Detail:   opts.detail,
		Format:   opts.format,
	}
	if opts.charts != nil {
		req.Charts = validation.SplitList(*opts.charts)
		if req.Charts == nil {
			req.Charts = []string{}
		}
	}

	display, err := validation.NewOptionsValidator(loc, defaultDetail, defaultKinds).Validate(req)
	if err != nil {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			if details, ok := apiErr.Details.(apierrors.ValidationErrors); ok && len(details.Errors) > 0 {
				return display, fmt.Errorf("%s: %s", apiErr.Message, details.Errors[0].Message)
			}
		}
		return display, err
	}
	return display, nil
}

func writeReport(path string, enc exporter.Encoding, report chartReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	err = exporter.WriteAndClose(file, func(out io.Writer) error {
		if err := exporter.Encode(out, enc, report); err != nil {
			return fmt.Errorf("failed to encode charts: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
