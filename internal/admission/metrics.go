package admission

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const outcomeAccepted = "ACCEPTED"

var (
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admission_decisions_total",
		Help: "Admission decisions by operation and outcome.",
	}, []string{"operation", "outcome"})

	decisionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admission_decision_duration_seconds",
		Help:    "Time taken to reach an admission decision, lock waits included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
