package indicators

import (
	"math"

	"github.com/AbrarQ/algo-lambda/internal/domain/models"
)

const (
	defaultFastEMA = 8
	defaultSlowEMA = 30
	defaultRSI     = 14
)

// EMA returns the exponential moving average of values, seeded with the simple
// average of the first period values. Indices before period-1 are NaN.
func EMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	prev := seed / float64(period)
	out[period-1] = prev

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		prev = values[i]*k + prev*(1-k)
		out[i] = prev
	}
	return out
}

// RSI returns the Wilder-smoothed relative strength index at every index.
// Indices before period are NaN.
func RSI(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := split(values[i] - values[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		gain, loss := split(values[i] - values[i-1])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

// Annotator fills EMA and RSI values on swing point candles.
type Annotator struct {
	fast, slow, rsi int
}

func NewAnnotator() *Annotator {
	return &Annotator{fast: defaultFastEMA, slow: defaultSlowEMA, rsi: defaultRSI}
}

// Annotate sets ema8, ema30 and rsi on each point whose index has enough history.
func (a *Annotator) Annotate(series []models.Candle, points []models.SwingPoint) {
	if len(points) == 0 {
		return
	}
	closes := make([]float64, len(series))
	for i, c := range series {
		closes[i] = c.Close.InexactFloat64()
	}
	fast := EMA(closes, a.fast)
	slow := EMA(closes, a.slow)
	rsi := RSI(closes, a.rsi)

	for i := range points {
		idx := points[i].Index
		if idx < 0 || idx >= len(series) {
			continue
		}
		points[i].Candle.EMA8 = valueAt(fast, idx)
		points[i].Candle.EMA30 = valueAt(slow, idx)
		points[i].Candle.RSI = valueAt(rsi, idx)
	}
}

func valueAt(s []float64, i int) *float64 {
	if math.IsNaN(s[i]) {
		return nil
	}
	v := math.Round(s[i]*100) / 100
	return &v
}

func split(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
