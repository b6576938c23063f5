package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/nibaldox/dureza-relativa/internal/dataprocessing"
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// Workbook sheet names
const (
	RecordsSheet = "Records"
	SummarySheet = "Summary"
)

var summaryHeaders = []string{"hardness", "count", "share", "mean", "std_dev", "min", "q1", "median", "q3", "max"}

// XLSXWriter builds workbooks with a records sheet and a category summary sheet
type XLSXWriter struct {
	outputDir string
	logger    *slog.Logger
}

// NewXLSXWriter creates a writer resolving relative paths against outputDir
func NewXLSXWriter(outputDir string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{
		outputDir: outputDir,
		logger:    logger.With(slog.String("component", "xlsx_writer")),
	}
}

// WriteRecords saves records and their summary to filePath
func (w *XLSXWriter) WriteRecords(filePath string, records []domain.WellRecord) (string, error) {
	fullPath := filePath
	if !filepath.IsAbs(filePath) && w.outputDir != "" {
		fullPath = filepath.Join(w.outputDir, filePath)
	}

	w.logger.Info("writing XLSX file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	err = WriteAndClose(file, func(out io.Writer) error {
		return EncodeRecordsXLSX(out, records)
	})
	if err != nil {
		return "", err
	}
	return fullPath, nil
}

// EncodeRecordsXLSX writes a workbook with the records and their category summary to out
func EncodeRecordsXLSX(out io.Writer, records []domain.WellRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), RecordsSheet); err != nil {
		return fmt.Errorf("failed to name records sheet: %w", err)
	}
	if err := writeRecordsSheet(f, records); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, dataprocessing.Summarize(records)); err != nil {
		return err
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRecordsSheet(f *excelize.File, records []domain.WellRecord) error {
	if err := setRow(f, RecordsSheet, 1, toCells(RecordHeaders)); err != nil {
		return err
	}

	for i, rec := range records {
		row := []interface{}{
			formatTime(rec.StartTime),
			formatTime(rec.EndTime),
			rec.DurationMinutes,
			string(rec.Hardness),
			rec.HardnessIndex,
			optionalCell(rec.DrillPattern),
			optionalCell(rec.WellID),
			optionalCell(rec.MaterialOperator),
			optionalNumberCell(rec.OperatorDepth),
			optionalNumberCell(rec.Elevation),
			optionalNumberCell(rec.Easting),
			optionalNumberCell(rec.Northing),
		}
		if err := setRow(f, RecordsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary dataprocessing.DatasetSummary) error {
	if err := setRow(f, SummarySheet, 1, toCells(summaryHeaders)); err != nil {
		return err
	}

	for i, cat := range summary.Categories {
		row := []interface{}{
			string(cat.Hardness), cat.Count, cat.Share, cat.Mean, cat.StdDev,
			cat.Min, cat.Q1, cat.Median, cat.Q3, cat.Max,
		}
		if err := setRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func optionalCell(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func optionalNumberCell(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
