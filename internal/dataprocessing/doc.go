// Package dataprocessing turns tabular drilling logs into well records.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Parser: tokenizes CSV (delimiter sniffed, BOM tolerated) and XLSX sources into a Table
// 2. Processor: normalizes rows, validates the required columns and builds WellRecords
// 3. Filters: date range and drill pattern selection over a record collection
// 4. Summarizer: per hardness category duration statistics
//
// # Usage
//
//	processor := dataprocessing.NewProcessor(dataprocessing.WithLogger(logger))
//	result, err := processor.Process(ctx, file, "pozos.csv")
//	if err != nil {
//	    // *ValidationError or *ReadError, nothing was ingested
//	}
//	visible := dataprocessing.ApplyFilters(result.Records, dataprocessing.FilterOptions{
//	    DrillPatterns: []string{"P-12"},
//	})
//
// # Data Flow
//
//	CSV/XLSX → Parser → Table → Processor → WellRecords → Filters → charts
//
// # Error Handling
//
// Only two conditions abort an ingestion: an unreadable source (*ReadError)
// and a missing required column (*ValidationError). Every other problem is
// confined to its row, which is skipped and reported in the result warnings.
package dataprocessing
