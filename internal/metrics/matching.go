package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching Prometheus metrics.
var (
	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peakprophet",
			Name:      "match_requests_total",
			Help:      "Total number of matching invocations",
		},
		[]string{"strategy", "status"},
	)

	MatrixBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "peakprophet",
			Name:      "matrix_build_duration_seconds",
			Help:      "Score matrix build duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "peakprophet",
			Name:      "solve_duration_seconds",
			Help:      "Assignment solve duration in seconds",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"strategy"},
	)

	DegradedSolvesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "peakprophet",
			Name:      "degraded_solves_total",
			Help:      "Matching invocations solved by the non-optimal greedy fallback",
		},
	)

	MatrixCells = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "peakprophet",
			Name:      "matrix_cells",
			Help:      "Score matrix size (predicted x observed) per invocation",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		},
	)
)

var matchMetricsRegistered bool

// RegisterMatchingMetrics registers Prometheus matching metrics. Must be called once from main.
func RegisterMatchingMetrics() {
	if matchMetricsRegistered {
		return
	}
	prometheus.MustRegister(MatchRequestsTotal)
	prometheus.MustRegister(MatrixBuildDuration)
	prometheus.MustRegister(SolveDuration)
	prometheus.MustRegister(DegradedSolvesTotal)
	prometheus.MustRegister(MatrixCells)
	matchMetricsRegistered = true
}
