// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReconciliationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_reconciliation_runs_total",
			Help: "Total number of full reconciliation pipeline runs",
		},
		[]string{"status"},
	)

	DecisionsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_decisions_raised_total",
			Help: "Total number of human-review decisions raised",
		},
		[]string{"decision_type"},
	)

	GapsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_gaps_detected_total",
			Help: "Total number of missing-scope gaps detected",
		},
		[]string{"source"},
	)

	ConflictsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_conflicts_detected_total",
			Help: "Total number of plan/quote conflicts detected",
		},
		[]string{"severity"},
	)

	DedupeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_dedupe_outcomes_total",
			Help: "Total number of dedupe checks by outcome",
		},
		[]string{"action"},
	)

	EngineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_run_duration_seconds",
			Help: "Duration of a single engine run in seconds",
		},
		[]string{"engine"},
	)
)
