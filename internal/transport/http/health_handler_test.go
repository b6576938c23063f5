package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/nibaldox/dureza-relativa/internal/errors"
	"github.com/nibaldox/dureza-relativa/internal/services"
	"github.com/nibaldox/dureza-relativa/pkg/contracts"
)

type stubDatasets struct {
	info *services.DatasetInfo
	err  error
}

func (s stubDatasets) Current(context.Context) (*services.DatasetInfo, error) {
	return s.info, s.err
}

func TestHealthHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		datasets       services.DatasetSource
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no dataset is still healthy",
			datasets:       stubDatasets{err: apierrors.ErrNoDataset},
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
		{
			name:           "dataset failure degrades",
			datasets:       stubDatasets{err: errors.New("boom")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := services.NewHealthService(contracts.BuildInfo{Version: "1.0.0"}, nil, tt.datasets, discardLogger())
			handler := NewHealthHandler(service, discardLogger())

			w := httptest.NewRecorder()
			handler.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var status services.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.Equal(t, tt.expectedBody, status.Status)
			assert.Equal(t, "1.0.0", status.Version)
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	build := contracts.BuildInfo{Version: "1.0.0", DataFormat: "v1"}
	handler := NewHealthHandler(services.NewHealthService(build, nil, nil, nil), nil)

	w := httptest.NewRecorder()
	handler.Version(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "v1", w.Header().Get("X-Data-Format"))
	assert.Contains(t, w.Body.String(), `"version":"1.0.0"`)
}

func TestMetricsHandler(t *testing.T) {
	errorHandler := apierrors.NewErrorHandler(discardLogger(), false)

	t.Run("disabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewMetricsHandler(nil, errorHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delegates to exporter", func(t *testing.T) {
		exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("dataset_rows_ingested_total 3\n"))
		})

		w := httptest.NewRecorder()
		NewMetricsHandler(exporter, errorHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "dataset_rows_ingested_total")
	})
}
