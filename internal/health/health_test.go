package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antinvestor/service-accounts/internal/health"
)

func TestLivenessAlwaysHealthy(t *testing.T) {
	h := health.NewHandler()

	rec := httptest.NewRecorder()
	h.LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp health.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, health.StatusHealthy, resp.Status)
}

func TestReadinessAggregatesCheckers(t *testing.T) {
	h := health.NewHandler()
	h.AddChecker(health.NewPingChecker("up", func(context.Context) error { return nil }, time.Second))
	h.AddChecker(health.NewPingChecker("down", func(context.Context) error {
		return errors.New("unreachable")
	}, time.Second))

	rec := httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp health.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, health.StatusUnhealthy, resp.Status)
	assert.Equal(t, health.StatusHealthy, resp.Checks["up"].Status)
	assert.Equal(t, health.StatusUnhealthy, resp.Checks["down"].Status)
	assert.Equal(t, "unreachable", resp.Checks["down"].Error)
}

func TestReadinessWithNoCheckersIsHealthy(t *testing.T) {
	h := health.NewHandler()

	rec := httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
