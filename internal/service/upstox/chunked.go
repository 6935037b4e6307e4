package upstox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/domain/models"
	domrepo "github.com/AbrarQ/algo-lambda/internal/domain/repository"
	xlogger "github.com/AbrarQ/algo-lambda/pkg/logger"
	"github.com/AbrarQ/algo-lambda/pkg/metrics"
)

const DefaultChunkDelay = 200 * time.Millisecond

// ChunkedFetcher covers long intraday ranges with a series of smaller requests.
type ChunkedFetcher struct {
	provider domrepo.CandleProvider
	policy   ChunkPolicy
	delay    time.Duration
	logger   *xlogger.Logger
	metrics  domrepo.Metrics
}

type ChunkedOption func(*ChunkedFetcher)

func NewChunkedFetcher(provider domrepo.CandleProvider, opts ...ChunkedOption) *ChunkedFetcher {
	f := &ChunkedFetcher{
		provider: provider,
		policy:   DefaultChunkPolicy(),
		delay:    DefaultChunkDelay,
		logger:   xlogger.Nop(),
		metrics:  metrics.Nop{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithChunkPolicy(p ChunkPolicy) ChunkedOption {
	return func(f *ChunkedFetcher) { f.policy = p }
}

// WithChunkDelay sets the pause between consecutive chunk requests.
func WithChunkDelay(d time.Duration) ChunkedOption {
	return func(f *ChunkedFetcher) { f.delay = d }
}

func WithChunkLogger(l *xlogger.Logger) ChunkedOption {
	return func(f *ChunkedFetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

func WithChunkMetrics(m domrepo.Metrics) ChunkedOption {
	return func(f *ChunkedFetcher) {
		if m != nil {
			f.metrics = m
		}
	}
}

// FetchInChunks fetches r chunk by chunk, newest chunk first, and returns the
// candles newest-first with boundary-day duplicates removed. A failing chunk is
// logged and skipped; the call only fails when every chunk failed, on a missing
// credential, or when ctx is done.
func (f *ChunkedFetcher) FetchInChunks(ctx context.Context, instrument string, tf domrepo.Timeframe, r domrepo.DateRange, credential string) ([]models.Candle, error) {
	chunks := f.policy.Plan(tf, r)
	out := make([]models.Candle, 0)

	var lastErr error
	failed := 0
	for i := len(chunks) - 1; i >= 0; i-- {
		ch := chunks[i]
		candles, err := f.provider.FetchCandles(ctx, domrepo.HistoricalRequest{
			Instrument: instrument,
			Timeframe:  tf,
			ToDate:     ch.To,
			FromDate:   ch.From,
			Credential: credential,
		})
		switch {
		case err == nil:
			out = appendOlder(out, candles)
		case errors.Is(err, ErrMissingCredential):
			return nil, err
		case ctx.Err() != nil:
			return nil, fmt.Errorf("chunked fetch %s: %w", tf, ctx.Err())
		default:
			failed++
			lastErr = err
			f.metrics.RecordChunkFailure(tf.String())
			f.logger.Warn("chunk fetch failed, skipping",
				xlogger.String("instrument", instrument),
				xlogger.String("timeframe", tf.String()),
				xlogger.Date("from", ch.From),
				xlogger.Date("to", ch.To),
				xlogger.Error(err),
			)
		}

		if i > 0 {
			if err := sleep(ctx, f.delay); err != nil {
				return nil, fmt.Errorf("chunked fetch %s: %w", tf, err)
			}
		}
	}

	if failed == len(chunks) && lastErr != nil {
		return nil, fmt.Errorf("all %d chunks failed: %w", failed, lastErr)
	}
	f.logger.Debug("chunked fetch complete",
		xlogger.String("instrument", instrument),
		xlogger.String("timeframe", tf.String()),
		xlogger.Int("chunks", len(chunks)),
		xlogger.Int("failed", failed),
		xlogger.Int("candles", len(out)),
	)
	return out, nil
}

// appendOlder appends a newest-first batch that is older than out, dropping
// anything not strictly older than the oldest candle already kept.
func appendOlder(out, batch []models.Candle) []models.Candle {
	for _, c := range batch {
		if n := len(out); n > 0 && c.Timestamp >= out[n-1].Timestamp {
			continue
		}
		out = append(out, c)
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
