package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests          *prometheus.CounterVec
	CounterSessionsStarted   prometheus.Counter
	CounterSessionsSaved     prometheus.Counter
	CounterSessionsAbandoned prometheus.Counter
	CounterRoutinesCloned    prometheus.Counter
	CounterResizeRejected    prometheus.Counter
	CounterCatalogCache      *prometheus.CounterVec

	// gauges
	GaugeLiveSessions prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
	HistSessionProgress prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("workout", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("workout", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterSessionsStarted:   counter("sessions_started", "Sessions materialized from a routine day"),
		CounterSessionsSaved:     counter("sessions_saved", "Sessions persisted"),
		CounterSessionsAbandoned: counter("sessions_abandoned", "Live sessions discarded without saving"),
		CounterRoutinesCloned:    counter("routines_cloned", "Templates cloned into user routines"),
		CounterResizeRejected:    counter("routine_resize_rejected", "Unconfirmed shrinks that were reverted"),
		CounterCatalogCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "catalog_cache",
			Help:      "Exercise catalog cache lookups by result",
		}, []string{"result"}),

		GaugeLiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "live_sessions",
			Help:      "Sessions currently being tracked",
		}),

		HistRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		HistSessionProgress: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "session_progress_percent",
			Help:      "Completion percentage of saved sessions",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
}
