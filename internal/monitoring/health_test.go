package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnector struct {
	err error
}

func (f *fakeConnector) Healthy(context.Context) error {
	return f.err
}

func newTestMonitor(cfg Config) *HealthMonitor {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewLogger(logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	}
	return NewHealthMonitor(cfg)
}

func TestLivenessAlwaysHealthy(t *testing.T) {
	monitor := newTestMonitor(Config{})

	rec := httptest.NewRecorder()
	monitor.LivenessHandler()(rec, httptest.NewRequest("GET", "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadinessWithHealthyConnector(t *testing.T) {
	monitor := newTestMonitor(Config{SlackConnector: &fakeConnector{}})

	rec := httptest.NewRecorder()
	monitor.ReadinessHandler()(rec, httptest.NewRequest("GET", "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessFailsAfterThreshold(t *testing.T) {
	monitor := newTestMonitor(Config{
		SlackConnector:   &fakeConnector{err: errors.New("socket closed")},
		FailureThreshold: 2,
	})

	// First failure is debounced.
	rec := httptest.NewRecorder()
	monitor.ReadinessHandler()(rec, httptest.NewRequest("GET", "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	monitor.ReadinessHandler()(rec, httptest.NewRequest("GET", "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body["status"])
	assert.Contains(t, body["error"], "slack_connector")
}

func TestCombinedHandlerReportsVersion(t *testing.T) {
	monitor := newTestMonitor(Config{Version: "1.2.3"})

	rec := httptest.NewRecorder()
	monitor.HealthHandler()(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1.2.3", body["version"])
	assert.NotEmpty(t, body["uptime"])
}

func TestRegisterRoutes(t *testing.T) {
	monitor := newTestMonitor(Config{TelegramConnector: &fakeConnector{}})

	router := chi.NewRouter()
	monitor.RegisterRoutes(router, "/health", "/health/live", "/health/ready")

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
