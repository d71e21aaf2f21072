package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records token acquisition attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdeck_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// Registrations counts account registrations by result (success|failure).
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdeck_registrations_total",
			Help: "Total number of account registrations",
		},
		[]string{"result"},
	)

	// Activations counts account activation attempts by result (success|failure).
	Activations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdeck_activations_total",
			Help: "Total number of account activation attempts",
		},
		[]string{"result"},
	)

	// TaskOperations counts task CRUD operations by kind and outcome.
	TaskOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdeck_task_operations_total",
			Help: "Total number of task operations",
		},
		[]string{"operation", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskdeck_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
