package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoChecksMeansHealthy(t *testing.T) {
	checker := New()

	status, err := checker.CheckLiveness(t.Context())
	require.NoError(t, err)
	assert.True(t, status.Healthy)

	status, err = checker.CheckReadiness(t.Context())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}

func TestPassingCheck(t *testing.T) {
	checker := New()
	checker.AddLivenessCheck(NewCheckFunc("process", func(context.Context) error { return nil }))

	status, err := checker.CheckLiveness(t.Context())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	require.Len(t, status.Checks, 1)
	assert.Equal(t, "process", status.Checks[0].Name)
	assert.True(t, status.Checks[0].Healthy)
}

func TestFailureThresholdDebounces(t *testing.T) {
	checker := New(WithFailureThreshold(3))
	checker.AddReadinessCheck(NewCheckFunc("flaky", func(context.Context) error {
		return errors.New("down")
	}))

	// First two failures stay below the threshold.
	for i := 0; i < 2; i++ {
		status, err := checker.CheckReadiness(t.Context())
		require.NoError(t, err)
		assert.True(t, status.Healthy, "failure %d should be tolerated", i+1)
	}

	status, err := checker.CheckReadiness(t.Context())
	require.Error(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, "down", status.Checks[0].Error)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	var fail bool
	checker := New(WithFailureThreshold(2))
	checker.AddReadinessCheck(NewCheckFunc("recovering", func(context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	}))

	fail = true
	_, err := checker.CheckReadiness(t.Context())
	require.NoError(t, err)

	fail = false
	_, err = checker.CheckReadiness(t.Context())
	require.NoError(t, err)

	// The earlier failure no longer counts toward the threshold.
	fail = true
	_, err = checker.CheckReadiness(t.Context())
	require.NoError(t, err)
}

func TestMixedChecksReportFailedNames(t *testing.T) {
	checker := New(WithFailureThreshold(1))
	checker.AddReadinessCheck(NewCheckFunc("good", func(context.Context) error { return nil }))
	checker.AddReadinessCheck(NewCheckFunc("bad", func(context.Context) error { return errors.New("down") }))

	status, err := checker.CheckReadiness(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.NotContains(t, err.Error(), "good")
	assert.False(t, status.Healthy)
}

func TestHTTPCheckerToleratesClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL, "api")
	assert.Equal(t, "api", checker.Name())
	assert.NoError(t, checker.Check(t.Context()))
}

func TestHTTPCheckerFailsOnServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL, "api")
	assert.Error(t, checker.Check(t.Context()))
}

func TestHTTPCheckerFailsOnConnectionError(t *testing.T) {
	checker := NewHTTPChecker("http://127.0.0.1:1", "unreachable")
	assert.Error(t, checker.Check(t.Context()))
}
