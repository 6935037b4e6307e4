package upstox

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/domain/models"
	domrepo "github.com/AbrarQ/algo-lambda/internal/domain/repository"

	"github.com/shopspring/decimal"
)

// mockMaxCandles bounds one synthetic response.
const mockMaxCandles = 5000

// MockProvider produces a deterministic random walk per instrument and
// timeframe. It stands in for the live API when no access token is available.
type MockProvider struct {
	basePrice float64
}

func NewMockProvider() *MockProvider {
	return &MockProvider{basePrice: 100}
}

// FetchCandles returns synthetic candles newest-first, like the live endpoint.
func (m *MockProvider) FetchCandles(ctx context.Context, req domrepo.HistoricalRequest) ([]models.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from := req.FromDate
	if !req.HasFrom() {
		from = SuggestedFrom(req.Timeframe, req.ToDate)
	}
	step := stepOf(req.Timeframe)
	end := req.ToDate.Add(24*time.Hour - time.Nanosecond)

	h := fnv.New64a()
	_, _ = h.Write([]byte(req.Instrument + "|" + req.Timeframe.String()))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	price := m.basePrice
	chrono := make([]models.Candle, 0)
	for t := from; !t.After(end) && len(chrono) < mockMaxCandles; t = t.Add(step) {
		open := price + (rng.Float64()-0.5)*10
		closing := open + (rng.Float64()-0.5)*5
		high := max(open, closing) + rng.Float64()*3
		low := min(open, closing) - rng.Float64()*3

		chrono = append(chrono, models.Candle{
			Timestamp: t.Format("2006-01-02T15:04:05"),
			Open:      decimal.NewFromFloat(open).Round(2),
			High:      decimal.NewFromFloat(high).Round(2),
			Low:       decimal.NewFromFloat(low).Round(2),
			Close:     decimal.NewFromFloat(closing).Round(2),
			Volume:    rng.Int63n(10000),
		})
		price = closing
	}
	return models.Reverse(chrono), nil
}

func stepOf(tf domrepo.Timeframe) time.Duration {
	n := time.Duration(tf.Interval)
	switch tf.Unit {
	case domrepo.UnitMinutes:
		return n * time.Minute
	case domrepo.UnitHours:
		return n * time.Hour
	case domrepo.UnitWeeks:
		return n * 7 * 24 * time.Hour
	case domrepo.UnitMonths:
		return n * 30 * 24 * time.Hour
	default:
		return n * 24 * time.Hour
	}
}
