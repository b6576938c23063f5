// Package http implements the HTTP handlers of the dashboard backend.
// Handlers stay thin: they parse and validate the request, call a service
// and render the result. Every failure goes through errors.ErrorHandler and
// reaches the client as RFC 7807 problem details.
//
// # Routes
//
//	POST /api/datasets           multipart upload, field "file"
//	GET  /api/datasets/current   summary, warnings, default range, patterns
//	GET  /api/charts             chart set; start, end, patterns, detail, charts, format
//	GET  /api/charts/{kind}      one chart; same query without charts
//	GET  /api/records            filtered records; format json, msgpack, csv or xlsx
//	POST /api/client-logs        front end diagnostics
//	GET  /api/version
//	GET  /healthz
//	GET  /metrics
//
// # Encodings
//
// Chart and record responses are JSON unless format=msgpack is requested.
// MessagePack bodies use the JSON field names.
package http
