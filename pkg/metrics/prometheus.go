package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	upstreamRequests *prometheus.CounterVec
	rangeShrinks     *prometheus.CounterVec
	chunkFailures    *prometheus.CounterVec
	swingPoints      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algo_lambda_upstream_requests_total",
				Help: "Historical-candle requests by timeframe and outcome",
			},
			[]string{"timeframe", "outcome"},
		),
		rangeShrinks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algo_lambda_range_shrinks_total",
				Help: "Times a rejected date range was narrowed and retried",
			},
			[]string{"timeframe"},
		),
		chunkFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algo_lambda_chunk_failures_total",
				Help: "Chunks skipped because their fetch failed",
			},
			[]string{"timeframe"},
		),
		swingPoints: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algo_lambda_swing_points_total",
				Help: "Swing points emitted",
			},
			[]string{"timeframe"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "algo_lambda_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordUpstreamRequest(tf, outcome string) {
	r.upstreamRequests.WithLabelValues(tf, outcome).Inc()
}

func (r *Recorder) RecordRangeShrink(tf string) {
	r.rangeShrinks.WithLabelValues(tf).Inc()
}

func (r *Recorder) RecordChunkFailure(tf string) {
	r.chunkFailures.WithLabelValues(tf).Inc()
}

func (r *Recorder) RecordSwingPoints(tf string, n int) {
	r.swingPoints.WithLabelValues(tf).Add(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordUpstreamRequest(string, string) {}
func (Nop) RecordRangeShrink(string)             {}
func (Nop) RecordChunkFailure(string)            {}
func (Nop) RecordSwingPoints(string, int)        {}
func (Nop) RecordLatency(string, float64)        {}
