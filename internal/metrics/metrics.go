package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aletheia_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aletheia_analyses_total",
			Help: "Completed analyses by input type and verdict",
		},
		[]string{"input_type", "verdict"},
	)

	CapabilityOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aletheia_capability_outcomes_total",
			Help: "External capability calls by outcome (ok, failed, skipped)",
		},
		[]string{"capability", "outcome"},
	)

	Observers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aletheia_observers",
			Help: "Live log stream observers",
		},
	)
)
