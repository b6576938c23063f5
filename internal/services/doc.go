// Package services implements the business logic behind the dashboard API.
//
// # Available Services
//
//	- DashboardService: holds the single in-memory dataset, ingests uploads
//	  and derives summaries, filtered records and chart sets from it
//	- HealthService: reports liveness, websocket clients and dataset state
//
// # Concurrency
//
// DashboardService guards the current dataset with a sync.RWMutex. An upload
// is fully ingested before it replaces the dataset, so readers never observe
// a partial one, and a failed upload leaves the previous dataset in place.
// Chart builders are pure and run concurrently through errgroup.
//
// # Error Handling
//
// Services return errors the HTTP layer maps to problem details:
//
//	- errors.ErrNoDataset before the first successful upload
//	- *dataprocessing.ValidationError for a missing required column
//	- *dataprocessing.ReadError for files that cannot be tokenized
//	- charts.ErrUnknownKind for an invalid chart selection
package services
