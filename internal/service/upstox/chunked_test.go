package upstox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/domain/models"
	domrepo "github.com/AbrarQ/algo-lambda/internal/domain/repository"
	"github.com/AbrarQ/algo-lambda/pkg/metrics"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dailyProvider returns one candle per calendar day in [from, to], newest-first.
type dailyProvider struct {
	mu   sync.Mutex
	reqs []domrepo.HistoricalRequest
	fail func(n int, req domrepo.HistoricalRequest) error
}

func (p *dailyProvider) FetchCandles(_ context.Context, req domrepo.HistoricalRequest) ([]models.Candle, error) {
	p.mu.Lock()
	n := len(p.reqs)
	p.reqs = append(p.reqs, req)
	p.mu.Unlock()
	if p.fail != nil {
		if err := p.fail(n, req); err != nil {
			return nil, err
		}
	}

	out := make([]models.Candle, 0)
	for d := req.ToDate; !d.Before(req.FromDate); d = d.AddDate(0, 0, -1) {
		out = append(out, models.Candle{
			Timestamp: d.Format("2006-01-02T15:04:05"),
			High:      decimal.NewFromInt(10),
			Low:       decimal.NewFromInt(5),
		})
	}
	return out, nil
}

type countingMetrics struct {
	metrics.Nop
	mu            sync.Mutex
	chunkFailures int
}

func (m *countingMetrics) RecordChunkFailure(string) {
	m.mu.Lock()
	m.chunkFailures++
	m.mu.Unlock()
}

func fourHundredDays() domrepo.DateRange {
	return domrepo.DateRange{From: date("2023-01-01"), To: date("2024-02-05")}
}

func assertStrictlyNewestFirst(t *testing.T, candles []models.Candle) {
	t.Helper()
	for i := 1; i < len(candles); i++ {
		require.Less(t, candles[i].Timestamp, candles[i-1].Timestamp, "index %d", i)
	}
}

func TestFetchInChunksCoversRange(t *testing.T) {
	p := &dailyProvider{}
	f := NewChunkedFetcher(p, WithChunkDelay(0))
	r := fourHundredDays()

	got, err := f.FetchInChunks(context.Background(), "NSE_EQ|TEST", domrepo.TF15Min, r, "tok")
	require.NoError(t, err)

	require.Len(t, p.reqs, 14)
	assert.Equal(t, r.To, p.reqs[0].ToDate, "newest chunk is fetched first")
	assert.Equal(t, r.From, p.reqs[13].FromDate)
	for i, req := range p.reqs {
		assert.False(t, req.ToDate.After(r.To), "request %d", i)
		assert.Equal(t, "tok", req.Credential)
		assert.Equal(t, domrepo.TF15Min, req.Timeframe)
		if i > 0 {
			assert.Equal(t, p.reqs[i-1].FromDate, req.ToDate, "chunks share one boundary day")
		}
	}

	assert.Len(t, got, 401)
	assert.Equal(t, "2024-02-05T00:00:00", got[0].Timestamp)
	assert.Equal(t, "2023-01-01T00:00:00", got[len(got)-1].Timestamp)
	assertStrictlyNewestFirst(t, got)
}

func TestFetchInChunksSkipsFailedChunk(t *testing.T) {
	p := &dailyProvider{fail: func(n int, _ domrepo.HistoricalRequest) error {
		if n == 2 {
			return &UpstreamError{Status: 500, Message: "boom"}
		}
		return nil
	}}
	m := &countingMetrics{}
	f := NewChunkedFetcher(p, WithChunkDelay(0), WithChunkMetrics(m))

	got, err := f.FetchInChunks(context.Background(), "NSE_EQ|TEST", domrepo.TF1H, fourHundredDays(), "tok")
	require.NoError(t, err)
	assert.Len(t, p.reqs, 14)
	assert.Equal(t, 1, m.chunkFailures)
	assert.Less(t, len(got), 401)
	assert.Greater(t, len(got), 300)
	assertStrictlyNewestFirst(t, got)
}

func TestFetchInChunksFailsWhenEveryChunkFails(t *testing.T) {
	boom := errors.New("boom")
	p := &dailyProvider{fail: func(int, domrepo.HistoricalRequest) error { return boom }}
	f := NewChunkedFetcher(p, WithChunkDelay(0))

	_, err := f.FetchInChunks(context.Background(), "NSE_EQ|TEST", domrepo.TF4H,
		domrepo.DateRange{From: date("2024-01-01"), To: date("2024-03-15")}, "tok")
	require.ErrorIs(t, err, boom)
	assert.Len(t, p.reqs, 3)
}

func TestFetchInChunksAbortsOnMissingCredential(t *testing.T) {
	p := &dailyProvider{fail: func(int, domrepo.HistoricalRequest) error { return ErrMissingCredential }}
	f := NewChunkedFetcher(p, WithChunkDelay(0))

	_, err := f.FetchInChunks(context.Background(), "NSE_EQ|TEST", domrepo.TF15Min, fourHundredDays(), "")
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Len(t, p.reqs, 1)
}

func TestFetchInChunksStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &dailyProvider{}
	f := NewChunkedFetcher(p, WithChunkDelay(time.Hour))

	done := make(chan error, 1)
	go func() {
		_, err := f.FetchInChunks(ctx, "NSE_EQ|TEST", domrepo.TF15Min, fourHundredDays(), "tok")
		done <- err
	}()

	// the first pause is an hour long, cancel it
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return len(p.reqs) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("chunked fetch ignored cancellation")
	}
}

func TestAppendOlderDropsBoundaryDuplicates(t *testing.T) {
	newer := []models.Candle{{Timestamp: "2024-02-01T09:30:00"}, {Timestamp: "2024-02-01T09:15:00"}}
	older := []models.Candle{{Timestamp: "2024-02-01T09:15:00"}, {Timestamp: "2024-01-31T15:15:00"}}

	got := appendOlder(appendOlder(nil, newer), older)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-31T15:15:00", got[2].Timestamp)
}
