package service

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()

	m.ObserveHTTPRequest("GET", "/v1/students", 200, 50*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/v1/students", 200, 150*time.Millisecond)
	m.ObserveBackendFetch("GET", "/students", 20*time.Millisecond)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordRowLoaded()

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 100, snap.AverageRequestDurationMs, 0.01)
	assert.Equal(t, uint64(1), snap.BackendFetchCount)
	assert.InDelta(t, 20, snap.AverageBackendFetchMs, 0.01)
	assert.Equal(t, uint64(2), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 0.0001)
	assert.False(t, snap.GeneratedAt.IsZero())
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/v1/classes", 200, 10*time.Millisecond)
	m.RecordCacheLookup(false)
	m.RecordRowLoaded()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "stats_cache_misses_total")
	assert.Contains(t, body, "progressive_rows_loaded_total")
	assert.Contains(t, body, "goroutines_total")
}

func TestMetricsServiceNilReceiverIsSafe(t *testing.T) {
	var m *MetricsService

	m.ObserveHTTPRequest("GET", "/v1/students", 200, time.Millisecond)
	m.ObserveBackendFetch("GET", "/students", time.Millisecond)
	m.RecordCacheLookup(true)
	m.RecordRowLoaded()

	snap := m.Snapshot()
	assert.Zero(t, snap.RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 503, rec.Code)
}
