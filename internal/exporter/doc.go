// Package exporter writes processed well records and chart definitions out.
//
// CSVWriter: BOM-prefixed CSV files of well records, one row per record.
//
// XLSXWriter: workbooks with a Records sheet and a per category Summary sheet.
//
// Encode: JSON or MessagePack encoding of any payload, used for chart
// definitions by the CLI and the HTTP API alike.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter("out", logger)
//	path, err := csvWriter.WriteRecords("records.csv", result.Records)
//
//	err = exporter.Encode(w, exporter.EncodingMsgpack, charts)
package exporter
