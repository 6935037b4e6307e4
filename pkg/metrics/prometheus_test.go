package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordUpstreamRequest("minutes_15", "ok")
	r.RecordUpstreamRequest("minutes_15", "ok")
	r.RecordUpstreamRequest("minutes_15", "400")
	r.RecordRangeShrink("days_1")
	r.RecordChunkFailure("hours_1")
	r.RecordSwingPoints("days_1", 7)
	r.RecordLatency("upstox_fetch", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.upstreamRequests.WithLabelValues("minutes_15", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamRequests.WithLabelValues("minutes_15", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rangeShrinks.WithLabelValues("days_1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.chunkFailures.WithLabelValues("hours_1")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.swingPoints.WithLabelValues("days_1")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
