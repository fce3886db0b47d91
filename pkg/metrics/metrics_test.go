package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	return logger.NewLogger(logger.Config{Level: logger.DebugLevel, Output: io.Discard})
}

func TestNewMetricsRegistersCollectors(t *testing.T) {
	m := NewMetrics(newTestLogger())

	m.CommandsReceived.WithLabelValues("chat").Inc()
	m.CommandsReceived.WithLabelValues("chat").Inc()
	m.CommandsReceived.WithLabelValues("remember").Inc()
	m.QuotaDenials.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CommandsReceived.WithLabelValues("chat")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CommandsReceived.WithLabelValues("remember")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QuotaDenials))
}

func TestObserveModelCall(t *testing.T) {
	m := NewMetrics(newTestLogger())

	m.ObserveModelCall(250*time.Millisecond, nil)
	m.ObserveModelCall(time.Second, errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ModelCalls))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ModelFailures))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := NewMetrics(newTestLogger())
	m.ModelCalls.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "bot_model_calls_total")
}
