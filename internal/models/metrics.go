package models

import "time"

// MetricsSnapshot represents system-level instrumentation captured for the
// operations/metrics endpoint.
type MetricsSnapshot struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	PlanningRunsTotal        uint64    `json:"planning_runs_total"`
	PlanningConflictsTotal   uint64    `json:"planning_conflicts_total"`
	GeneratedAt              time.Time `json:"generated_at"`
}
