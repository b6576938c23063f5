package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/nibaldox/dureza-relativa/internal/errors"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLog    string
		expectedLevel  string
	}{
		{
			name:           "chart render failure",
			body:           `{"level":"error","message":"chart failed to render","source":"heatmap","data":{"kind":"heatmap"}}`,
			expectedStatus: http.StatusAccepted,
			expectedLog:    "chart failed to render",
			expectedLevel:  "ERROR",
		},
		{
			name:           "warn level",
			body:           `{"level":"warn","message":"slow render"}`,
			expectedStatus: http.StatusAccepted,
			expectedLog:    "slow render",
			expectedLevel:  "WARN",
		},
		{
			name:           "unknown level logs as info",
			body:           `{"level":"verbose","message":"hello"}`,
			expectedStatus: http.StatusAccepted,
			expectedLog:    "hello",
			expectedLevel:  "INFO",
		},
		{
			name:           "missing message",
			body:           `{"level":"info"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty body",
			body:           ``,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           `{"level":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
			handler := NewClientLogHandler(logger, apierrors.NewErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), false))

			req := httptest.NewRequest(http.MethodPost, "/api/client-logs", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Handle(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedLog == "" {
				assert.Empty(t, logs.String())
				return
			}

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, tt.expectedLog, entry["msg"])
			assert.Equal(t, tt.expectedLevel, entry["level"])
			assert.Equal(t, "client_log", entry["handler"])
		})
	}
}
