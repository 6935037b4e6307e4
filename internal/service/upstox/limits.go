package upstox

import (
	"time"

	domrepo "github.com/AbrarQ/algo-lambda/internal/domain/repository"
)

// DefaultMaxSpanDays applies to timeframes missing from the table.
const DefaultMaxSpanDays = 365

var maxSpanDays = map[domrepo.Timeframe]int{
	{Unit: domrepo.UnitMinutes, Interval: 1}:  7,
	{Unit: domrepo.UnitMinutes, Interval: 5}:  30,
	{Unit: domrepo.UnitMinutes, Interval: 15}: 30,
	{Unit: domrepo.UnitMinutes, Interval: 30}: 90,
	{Unit: domrepo.UnitHours, Interval: 1}:    90,
	{Unit: domrepo.UnitHours, Interval: 4}:    180,
	{Unit: domrepo.UnitDays, Interval: 1}:     365,
	{Unit: domrepo.UnitWeeks, Interval: 1}:    1825,
	{Unit: domrepo.UnitMonths, Interval: 1}:   1825,
}

// MaxSpanDays is the widest from/to span the upstream accepts for tf.
func MaxSpanDays(tf domrepo.Timeframe) int {
	if d, ok := maxSpanDays[tf]; ok {
		return d
	}
	return DefaultMaxSpanDays
}

// SuggestedFrom is the earliest fromDate that keeps a request for tf within its limit.
func SuggestedFrom(tf domrepo.Timeframe, to time.Time) time.Time {
	return to.AddDate(0, 0, -MaxSpanDays(tf))
}

// ChunkPolicy decides how wide each chunk of a long range is, in months.
type ChunkPolicy struct {
	Minutes15 int
	Default   int
}

func DefaultChunkPolicy() ChunkPolicy {
	return ChunkPolicy{Minutes15: 1, Default: 1}
}

// Months returns the chunk width for tf, never less than one month.
func (p ChunkPolicy) Months(tf domrepo.Timeframe) int {
	m := p.Default
	if tf == domrepo.TF15Min {
		m = p.Minutes15
	}
	if m < 1 {
		m = 1
	}
	return m
}

// Plan splits r into consecutive chunks walking forward from r.From. Each chunk
// starts on the previous chunk's end date, and the last one is clipped to r.To.
func (p ChunkPolicy) Plan(tf domrepo.Timeframe, r domrepo.DateRange) []domrepo.DateRange {
	months := p.Months(tf)
	chunks := make([]domrepo.DateRange, 0)
	for from := r.From; ; {
		to := from.AddDate(0, months, 0)
		if !to.Before(r.To) {
			chunks = append(chunks, domrepo.DateRange{From: from, To: r.To})
			return chunks
		}
		chunks = append(chunks, domrepo.DateRange{From: from, To: to})
		from = to
	}
}
