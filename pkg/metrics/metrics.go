// Package metrics provides Prometheus metrics collection for bot commands and
// model calls.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const subsystem = "bot"

// Metrics holds the Prometheus collectors for the bot.
type Metrics struct {
	reg *prometheus.Registry

	CommandsReceived  *prometheus.CounterVec
	QuotaDenials      prometheus.Counter
	ModelCalls        prometheus.Counter
	ModelFailures     prometheus.Counter
	ModelCallDuration prometheus.Histogram

	log logger.Logger
}

// NewMetrics creates a Metrics instance with all bot collectors registered.
func NewMetrics(l logger.Logger) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		log: l,
	}

	m.CommandsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "commands_received_total",
		Help:      "Total commands received, by command name",
	}, []string{"command"})
	m.reg.MustRegister(m.CommandsReceived)

	m.QuotaDenials = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "quota_denials_total",
		Help:      "Total chat commands rejected by the daily quota",
	})
	m.reg.MustRegister(m.QuotaDenials)

	m.ModelCalls = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "model_calls_total",
		Help:      "Total calls made to the model backend",
	})
	m.reg.MustRegister(m.ModelCalls)

	m.ModelFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "model_failures_total",
		Help:      "Total model backend calls that returned an error",
	})
	m.reg.MustRegister(m.ModelFailures)

	m.ModelCallDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Subsystem: subsystem,
		Name:      "model_call_duration_seconds",
		Help:      "Model backend call duration in seconds",
		Buckets:   []float64{0.1, 0.3, 0.5, 1.0, 3.0, 5.0, 10.0, 30.0},
	})
	m.reg.MustRegister(m.ModelCallDuration)

	return m
}

// ObserveModelCall records one model call with its outcome and duration.
func (m *Metrics) ObserveModelCall(duration time.Duration, err error) {
	m.ModelCalls.Inc()
	m.ModelCallDuration.Observe(duration.Seconds())
	if err != nil {
		m.ModelFailures.Inc()
	}
}

// Handler returns the HTTP handler serving the registry, for mounting on an
// existing router.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Listen starts a standalone metrics HTTP server on the specified port. It
// blocks until the context is cancelled.
func (m *Metrics) Listen(ctx context.Context, port int) error {
	m.log.Info("Starting metrics listener", logger.IntField("port", port))

	mux := http.NewServeMux()
	mux.Handle("/", http.NotFoundHandler())
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		m.log.Info("Stopping metrics listener")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
