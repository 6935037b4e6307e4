package repository

import (
	"fmt"
	"time"
)

// Unit is the upstream candle unit segment.
type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
	UnitDays    Unit = "days"
	UnitWeeks   Unit = "weeks"
	UnitMonths  Unit = "months"
)

// Timeframe is a candle resolution. Two timeframes are equal iff unit and interval match.
type Timeframe struct {
	Unit     Unit
	Interval int
}

var (
	TF15Min = Timeframe{Unit: UnitMinutes, Interval: 15}
	TF1H    = Timeframe{Unit: UnitHours, Interval: 1}
	TF4H    = Timeframe{Unit: UnitHours, Interval: 4}
	TF1D    = Timeframe{Unit: UnitDays, Interval: 1}
)

func (tf Timeframe) String() string {
	return fmt.Sprintf("%s_%d", tf.Unit, tf.Interval)
}

// IsValidTimeframe returns true if tf has a known unit and a positive interval.
func IsValidTimeframe(tf Timeframe) bool {
	if tf.Interval <= 0 {
		return false
	}
	switch tf.Unit {
	case UnitMinutes, UnitHours, UnitDays, UnitWeeks, UnitMonths:
		return true
	default:
		return false
	}
}

// IsIntraday reports whether tf is finer than one day.
func (tf Timeframe) IsIntraday() bool {
	return tf.Unit == UnitMinutes || tf.Unit == UnitHours
}

// DateRange is an inclusive calendar range with From <= To.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange orders the two dates so From <= To.
func NewDateRange(a, b time.Time) DateRange {
	if b.Before(a) {
		a, b = b, a
	}
	return DateRange{From: a, To: b}
}

// SpanDays is the whole-day distance between From and To.
func (r DateRange) SpanDays() int {
	return int(r.To.Sub(r.From) / (24 * time.Hour))
}
