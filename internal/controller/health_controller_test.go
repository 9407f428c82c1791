package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"note-service-be/internal/repository/contract"
	"note-service-be/internal/repository/memory"
	"note-service-be/internal/service"
	"note-service-be/pkg/health"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSampler struct {
	rssMB, heapMB uint64
}

func (s stubSampler) Memory() health.MemorySnapshot {
	return health.MemorySnapshot{RSS: s.rssMB << 20, HeapTotal: 100 << 20, HeapUsed: s.heapMB << 20, External: 1 << 20}
}
func (s stubSampler) Uptime() time.Duration { return 3 * time.Minute }
func (s stubSampler) Now() time.Time { return time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC) }

func checkHealth(t *testing.T, state contract.ConnectionState, sampler stubSampler) (int, health.Report) {
	t.Helper()

	store := memory.NewNoteRepository()
	store.SetState(state)

	app := fiber.New()
	NewHealthController(service.NewHealthService(store, sampler)).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var report health.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	return resp.StatusCode, report
}

func TestHealthHealthy(t *testing.T) {
	code, report := checkHealth(t, contract.StateConnected, stubSampler{rssMB: 50, heapMB: 50})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, "connected", report.Database.State)
	assert.True(t, report.Database.IsConnected)
	assert.Equal(t, "3 minutes 0 seconds", report.Uptime)
	assert.Empty(t, report.ActionableMessage)
}

func TestHealthDisconnected(t *testing.T) {
	code, report := checkHealth(t, contract.StateDisconnected, stubSampler{rssMB: 50, heapMB: 50})

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "unhealthy", report.Status)
	assert.Equal(t, "disconnected", report.Database.State)
	assert.Contains(t, report.ActionableMessage, "Check database connection.")
}

func TestHealthHighRSS(t *testing.T) {
	code, report := checkHealth(t, contract.StateConnected, stubSampler{rssMB: 250, heapMB: 20})

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "unhealthy", report.Status)
	assert.Contains(t, report.ActionableMessage, "Investigate high memory usage (RSS).")
	assert.NotContains(t, report.ActionableMessage, "heap")
	assert.NotContains(t, report.ActionableMessage, "Check database connection.")
	assert.Equal(t, "250.00 MB", report.MemoryUsage.RSS)
}
