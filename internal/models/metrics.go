package models

import "time"

// SystemMetrics is the aggregated runtime snapshot served by the console's
// own metrics endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	BackendFetchCount        uint64    `json:"backend_fetch_count"`
	AverageBackendFetchMs    float64   `json:"average_backend_fetch_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
