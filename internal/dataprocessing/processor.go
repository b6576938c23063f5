package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// Warning texts surfaced to the user alongside a successful result
const (
	WarningNoDataRows    = "no data rows"
	WarningNoValidRecord = "no valid records could be built from the file"
)

// Processor turns a tokenized table into well records.
// It holds no per-call state; one Processor may serve any number of ingestions.
type Processor struct {
	logger   *slog.Logger
	location *time.Location
}

// ProcessorOption configures a Processor
type ProcessorOption func(*Processor)

// WithLogger sets the logger used for ingestion diagnostics
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLocation sets the location zone-less timestamps are interpreted in
func WithLocation(loc *time.Location) ProcessorOption {
	return func(p *Processor) {
		if loc != nil {
			p.location = loc
		}
	}
}

// NewProcessor creates a processor reading timestamps in time.Local by default
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		logger:   slog.Default(),
		location: time.Local,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(slog.String("component", "processor"))
	return p
}

// Process tokenizes r (CSV or XLSX according to name) and builds the records
func (p *Processor) Process(ctx context.Context, r io.Reader, name string) (*domain.ProcessedResult, error) {
	table, err := ReadTable(r, name)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to read source",
			slog.String("source", name),
			slog.String("error", err.Error()))
		return nil, err
	}
	return p.ProcessTable(ctx, table)
}

// ProcessTable builds one record per valid row of table.
//
// Invalid rows are skipped and described in the result warnings. The only
// error returned is a *ValidationError when a required column is missing.
func (p *Processor) ProcessTable(ctx context.Context, table *Table) (*domain.ProcessedResult, error) {
	if table == nil {
		table = &Table{}
	}

	rows := normalizeRows(table.Rows)
	issues := tableIssues(table.Errors)
	if len(rows) == 0 {
		p.logger.InfoContext(ctx, "table has no data rows")
		return &domain.ProcessedResult{
			Records:  []domain.WellRecord{},
			Warnings: append(droppedRowWarnings(table.Errors, rows), WarningNoDataRows),
		}, nil
	}

	if err := validateColumns(rows[0].row); err != nil {
		p.logger.ErrorContext(ctx, "missing required column", slog.String("column", err.Column))
		return nil, err
	}

	var warnings []string
	records := make([]domain.WellRecord, 0, len(rows))
	negative := 0
	for _, nr := range rows {
		rowIssues := issues[nr.source+1]

		start, okStart := ParseDate(nr.row[domain.ColumnStartTime], p.location)
		end, okEnd := ParseDate(nr.row[domain.ColumnEndTime], p.location)
		if !okStart || !okEnd {
			warnings = append(warnings, rowWarning(nr.number, "invalid date values", rowIssues))
			continue
		}

		record, ok := domain.NewWellRecord(start, end, nr.row)
		if !ok {
			warnings = append(warnings, rowWarning(nr.number, "could not compute duration", rowIssues))
			continue
		}
		applyOptionalFields(&record, nr.row)

		if len(rowIssues) > 0 {
			warnings = append(warnings, fmt.Sprintf("row %d: %s", nr.number, strings.Join(rowIssues, "; ")))
		}
		if record.IsNegativeDuration() {
			negative++
			p.logger.DebugContext(ctx, "end time precedes start time",
				slog.Int("row", nr.number),
				slog.Float64("duration_minutes", record.DurationMinutes))
		}
		records = append(records, record)
	}
	warnings = append(warnings, droppedRowWarnings(table.Errors, rows)...)

	if len(records) == 0 {
		warnings = append(warnings, WarningNoValidRecord)
	}

	p.logger.InfoContext(ctx, "table processed",
		slog.Int("rows", len(rows)),
		slog.Int("records", len(records)),
		slog.Int("rejected", len(rows)-len(records)),
		slog.Int("negative_durations", negative),
		slog.Int("warnings", len(warnings)))

	if warnings == nil {
		warnings = []string{}
	}
	return &domain.ProcessedResult{Records: records, Warnings: warnings}, nil
}

// tableIssues groups tokenizer messages by their 1-based table row
func tableIssues(errs []TableError) map[int][]string {
	issues := make(map[int][]string, len(errs))
	for _, e := range errs {
		issues[e.Row] = append(issues[e.Row], e.Message)
	}
	return issues
}

// rowWarning describes a rejected row, folding in what the tokenizer reported for it
func rowWarning(number int, reason string, issues []string) string {
	if len(issues) == 0 {
		return fmt.Sprintf("row %d: %s", number, reason)
	}
	return fmt.Sprintf("row %d: %s (%s)", number, reason, strings.Join(issues, "; "))
}

// droppedRowWarnings reports tokenizer problems on rows that normalization
// dropped as blank. Those rows have no row number, so the source line is cited.
func droppedRowWarnings(errs []TableError, kept []numberedRow) []string {
	if len(errs) == 0 {
		return nil
	}
	keptRows := make(map[int]bool, len(kept))
	for _, nr := range kept {
		keptRows[nr.source+1] = true
	}

	var warnings []string
	for _, e := range errs {
		if !keptRows[e.Row] {
			warnings = append(warnings, fmt.Sprintf("line %d: %s", e.Line, e.Message))
		}
	}
	return warnings
}

// validateColumns checks the required columns against the first data row
func validateColumns(first domain.RawRow) *ValidationError {
	for _, column := range domain.RequiredColumns {
		if _, ok := first[column]; !ok {
			return &ValidationError{Column: column}
		}
	}
	return nil
}

// applyOptionalFields copies the pass-through columns that are present and parse
func applyOptionalFields(record *domain.WellRecord, row domain.RawRow) {
	record.DrillPattern = ParseText(row[domain.ColumnDrillPattern])
	record.WellID = ParseText(row[domain.ColumnWellID])
	record.MaterialOperator = ParseText(row[domain.ColumnMaterialOperator])
	record.OperatorDepth = ParseNumber(row[domain.ColumnOperatorDepth])
	record.Elevation = ParseNumber(row[domain.ColumnElevation])
	record.Easting = ParseNumber(row[domain.ColumnEasting])
	record.Northing = ParseNumber(row[domain.ColumnNorthing])
}
