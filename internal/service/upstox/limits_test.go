package upstox

import (
	"testing"

	domrepo "github.com/AbrarQ/algo-lambda/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxSpanDays(t *testing.T) {
	cases := []struct {
		tf   domrepo.Timeframe
		want int
	}{
		{domrepo.Timeframe{Unit: domrepo.UnitMinutes, Interval: 1}, 7},
		{domrepo.Timeframe{Unit: domrepo.UnitMinutes, Interval: 5}, 30},
		{domrepo.TF15Min, 30},
		{domrepo.Timeframe{Unit: domrepo.UnitMinutes, Interval: 30}, 90},
		{domrepo.TF1H, 90},
		{domrepo.TF4H, 180},
		{domrepo.TF1D, 365},
		{domrepo.Timeframe{Unit: domrepo.UnitWeeks, Interval: 1}, 1825},
		{domrepo.Timeframe{Unit: domrepo.UnitMonths, Interval: 1}, 1825},
		{domrepo.Timeframe{Unit: domrepo.UnitHours, Interval: 2}, DefaultMaxSpanDays},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MaxSpanDays(tc.tf), tc.tf.String())
	}
}

func TestSuggestedFrom(t *testing.T) {
	assert.Equal(t, date("2023-12-02"), SuggestedFrom(domrepo.TF1H, date("2024-03-01")))
}

func TestPlanFourHundredDays(t *testing.T) {
	r := domrepo.DateRange{From: date("2023-01-01"), To: date("2024-02-05")}
	require.Equal(t, 400, r.SpanDays())

	chunks := DefaultChunkPolicy().Plan(domrepo.TF15Min, r)
	require.Len(t, chunks, 14)

	assert.Equal(t, r.From, chunks[0].From)
	assert.Equal(t, r.To, chunks[len(chunks)-1].To)
	for i, ch := range chunks {
		assert.False(t, ch.To.After(r.To), "chunk %d ends after range", i)
		assert.True(t, ch.From.Before(ch.To), "chunk %d is empty", i)
		if i > 0 {
			assert.Equal(t, chunks[i-1].To, ch.From, "chunk %d must start on the previous end date", i)
		}
	}
}

func TestPlanShortRangeIsOneChunk(t *testing.T) {
	r := domrepo.DateRange{From: date("2024-01-10"), To: date("2024-01-20")}
	chunks := DefaultChunkPolicy().Plan(domrepo.TF1H, r)
	require.Len(t, chunks, 1)
	assert.Equal(t, r, chunks[0])
}

func TestChunkPolicyEntriesAreIndependent(t *testing.T) {
	p := ChunkPolicy{Minutes15: 2, Default: 1}
	assert.Equal(t, 2, p.Months(domrepo.TF15Min))
	assert.Equal(t, 1, p.Months(domrepo.TF1H))
	assert.Equal(t, 1, p.Months(domrepo.TF4H))

	r := domrepo.DateRange{From: date("2023-01-01"), To: date("2023-07-01")}
	assert.Len(t, p.Plan(domrepo.TF15Min, r), 3)
	assert.Len(t, p.Plan(domrepo.TF4H, r), 6)

	assert.Equal(t, 1, ChunkPolicy{}.Months(domrepo.TF1H))
}
