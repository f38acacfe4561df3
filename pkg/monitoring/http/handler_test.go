package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/monitoring"
	"github.com/tata-ai/tata/pkg/notifications"
)

type nopNotifier struct{}

func (nopNotifier) SendServiceDownNotification(context.Context, notifications.ServiceDownData) error {
	return nil
}

func (nopNotifier) SendServiceRecoveryNotification(context.Context, notifications.ServiceRecoveryData) error {
	return nil
}

func (nopNotifier) SendSnapshotFailureNotification(context.Context, notifications.SnapshotFailureData) error {
	return nil
}

func TestMonitoringRoutes(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer backend.Close()

	cfg := monitoring.DefaultConfig()
	cfg.Services = []monitoring.TargetConfig{{
		Name:             "tata-core",
		URL:              backend.URL,
		ExpectedResponse: map[string]any{"status": "healthy"},
	}}
	svc, err := monitoring.NewService(cfg, nopNotifier{}, logger.NewNop())
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitoring/services/tata-core", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unknown"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/monitoring/check", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"up"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitoring/services", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"tata-core"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitoring/services/tata-edge", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
