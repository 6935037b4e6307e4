package repository

import (
	"context"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/domain/models"
)

// HistoricalRequest addresses one upstream historical-candle call.
// FromDate is optional; a zero value asks for the provider default window.
type HistoricalRequest struct {
	Instrument string
	Timeframe  Timeframe
	ToDate     time.Time
	FromDate   time.Time
	Credential string
}

// HasFrom reports whether the request carries a lower bound.
func (r HistoricalRequest) HasFrom() bool {
	return !r.FromDate.IsZero()
}

// CandleProvider returns candles newest-first for a single request.
type CandleProvider interface {
	FetchCandles(ctx context.Context, req HistoricalRequest) ([]models.Candle, error)
}

// RangeFetcher covers a date range that may exceed a single request's limit.
// The result is newest-first.
type RangeFetcher interface {
	FetchInChunks(ctx context.Context, instrument string, tf Timeframe, r DateRange, credential string) ([]models.Candle, error)
}

type Metrics interface {
	RecordUpstreamRequest(tf, outcome string)
	RecordRangeShrink(tf string)
	RecordChunkFailure(tf string)
	RecordSwingPoints(tf string, n int)
	RecordLatency(op string, seconds float64)
}
