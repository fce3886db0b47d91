// Package monitoring exposes the bot's liveness and readiness endpoints.
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lewisedginton/cosmic_chatbot/pkg/health"
	"github.com/lewisedginton/cosmic_chatbot/pkg/logger"
)

// Health status constants
const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusReady     = "ready"
	statusNotReady  = "not_ready"
)

// Connector is a chat platform connection that can report its health.
type Connector interface {
	Healthy(ctx context.Context) error
}

// Config holds configuration for the health monitor
type Config struct {
	Logger            logger.Logger
	Version           string
	ProviderCheckURL  string    // Optional: URL probed to verify the LLM provider is reachable
	SlackConnector    Connector // Optional
	TelegramConnector Connector // Optional
	Timeout           time.Duration
	FailureThreshold  int
}

// HealthMonitor manages health checks and serves the probe endpoints.
type HealthMonitor struct {
	checker   *health.Checker
	logger    logger.Logger
	version   string
	startTime time.Time
}

// NewHealthMonitor creates a health monitor with the configured checks.
func NewHealthMonitor(cfg Config) *HealthMonitor {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	failureThreshold := cfg.FailureThreshold
	if failureThreshold == 0 {
		failureThreshold = 3
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	checker := health.New(
		health.WithLogger(cfg.Logger),
		health.WithTimeout(timeout),
		health.WithFailureThreshold(failureThreshold),
	)

	// The process is alive if this check can run at all.
	checker.AddLivenessCheck(health.NewCheckFunc("process", func(ctx context.Context) error {
		return nil
	}))

	if cfg.ProviderCheckURL != "" {
		checker.AddReadinessCheck(health.NewHTTPChecker(cfg.ProviderCheckURL, "llm_provider"))
	}

	if cfg.SlackConnector != nil {
		checker.AddReadinessCheck(health.NewCheckFunc("slack_connector", func(ctx context.Context) error {
			return cfg.SlackConnector.Healthy(ctx)
		}))
	}

	if cfg.TelegramConnector != nil {
		checker.AddReadinessCheck(health.NewCheckFunc("telegram_connector", func(ctx context.Context) error {
			return cfg.TelegramConnector.Healthy(ctx)
		}))
	}

	return &HealthMonitor{
		checker:   checker,
		logger:    cfg.Logger,
		version:   version,
		startTime: time.Now(),
	}
}

// LivenessHandler serves liveness probes: 200 if the process is alive.
func (hm *HealthMonitor) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := hm.checker.CheckLiveness(r.Context())

		response := map[string]interface{}{
			"status":    statusHealthy,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(hm.startTime).String(),
			"checks":    checkSummaries(status),
		}

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			response["status"] = statusUnhealthy
			response["error"] = err.Error()
			w.WriteHeader(http.StatusServiceUnavailable)
			hm.logger.Error("Liveness check failed", logger.ErrorField(err))
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// ReadinessHandler serves readiness probes: 200 if dependencies are healthy.
func (hm *HealthMonitor) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := hm.checker.CheckReadiness(r.Context())

		response := map[string]interface{}{
			"status":    statusReady,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    checkSummaries(status),
		}

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			response["status"] = statusNotReady
			response["error"] = err.Error()
			w.WriteHeader(http.StatusServiceUnavailable)
			hm.logger.Error("Readiness check failed", logger.ErrorField(err))
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// HealthHandler serves a combined view of liveness and readiness.
func (hm *HealthMonitor) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		livenessStatus, livenessErr := hm.checker.CheckLiveness(r.Context())
		readinessStatus, readinessErr := hm.checker.CheckReadiness(r.Context())

		liveness := map[string]interface{}{
			"status": statusHealthy,
			"checks": checkSummaries(livenessStatus),
		}
		readiness := map[string]interface{}{
			"status": statusReady,
			"checks": checkSummaries(readinessStatus),
		}
		response := map[string]interface{}{
			"status":    statusHealthy,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(hm.startTime).String(),
			"version":   hm.version,
			"liveness":  liveness,
			"readiness": readiness,
		}

		healthy := true
		if livenessErr != nil {
			liveness["status"] = statusUnhealthy
			liveness["error"] = livenessErr.Error()
			healthy = false
		}
		if readinessErr != nil {
			readiness["status"] = statusNotReady
			readiness["error"] = readinessErr.Error()
			healthy = false
		}

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			response["status"] = statusUnhealthy
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// RegisterRoutes mounts the health endpoints on a chi router.
func (hm *HealthMonitor) RegisterRoutes(router chi.Router, combinedPath, livenessPath, readinessPath string) {
	router.Get(combinedPath, hm.HealthHandler())
	router.Get(livenessPath, hm.LivenessHandler())
	router.Get(readinessPath, hm.ReadinessHandler())
}

func checkSummaries(status *health.Status) []map[string]interface{} {
	summaries := make([]map[string]interface{}, 0, len(status.Checks))
	for _, check := range status.Checks {
		summary := map[string]interface{}{
			"name":    check.Name,
			"healthy": check.Healthy,
			"latency": check.Latency.String(),
		}
		if check.Error != "" {
			summary["error"] = check.Error
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
