package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	HandlerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "algo_lambda",
			Subsystem: "swing_points",
			Name:      "latency_seconds",
			Help:      "Latency of swing point endpoints",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	HandlerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "algo_lambda",
			Subsystem: "swing_points",
			Name:      "errors_total",
			Help:      "Errors by swing point endpoint and kind",
		},
		[]string{"endpoint", "kind"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(HandlerLatency, HandlerErrors)
	})
}
