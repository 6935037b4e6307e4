package swing

import (
	"github.com/AbrarQ/algo-lambda/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Detector labels swing highs and lows in a chronological series.
// A bar is a swing high when its high is strictly above the highs of the
// window bars on each side, and a swing low when its low is strictly below
// their lows. Bars closer than window to either edge are never confirmed.
type Detector struct{}

func NewDetector() *Detector { return &Detector{} }

// Detect returns the swing points of candles in source order. The result is
// never nil; a series shorter than 2*window+1 yields no points.
func (Detector) Detect(candles []models.Candle, window int) []models.SwingPoint {
	out := make([]models.SwingPoint, 0)
	if window <= 0 || len(candles) < 2*window+1 {
		return out
	}

	var lastHigh, lastLow *decimal.Decimal
	for i := window; i < len(candles)-window; i++ {
		hi, lo := dominates(candles, i, window)

		// a bar can qualify both ways; the high is emitted first
		if hi {
			price := candles[i].High
			label := models.LabelSwingHigh
			if lastHigh != nil {
				label = models.LabelLowerHigh
				if price.GreaterThan(*lastHigh) {
					label = models.LabelHigherHigh
				}
			}
			lastHigh = &price
			out = append(out, newPoint(candles[i], i, price, label))
		}
		if lo {
			price := candles[i].Low
			label := models.LabelSwingLow
			if lastLow != nil {
				label = models.LabelHigherLow
				if price.LessThan(*lastLow) {
					label = models.LabelLowerLow
				}
			}
			lastLow = &price
			out = append(out, newPoint(candles[i], i, price, label))
		}
	}
	return out
}

func dominates(candles []models.Candle, i, window int) (hi, lo bool) {
	hi, lo = true, true
	for j := i - window; j <= i+window; j++ {
		if j == i {
			continue
		}
		if !candles[i].High.GreaterThan(candles[j].High) {
			hi = false
		}
		if !candles[i].Low.LessThan(candles[j].Low) {
			lo = false
		}
		if !hi && !lo {
			break
		}
	}
	return hi, lo
}

func newPoint(c models.Candle, idx int, price decimal.Decimal, label models.SwingLabel) models.SwingPoint {
	ac := models.AnnotatedCandle{Candle: c}
	switch label {
	case models.LabelSwingHigh:
		ac.IsSwingHigh = true
	case models.LabelHigherHigh:
		ac.IsSwingHigh, ac.IsHigherHigh = true, true
	case models.LabelLowerHigh:
		ac.IsSwingHigh, ac.IsLowerHigh = true, true
	case models.LabelSwingLow:
		ac.IsSwingLow = true
	case models.LabelHigherLow:
		ac.IsSwingLow, ac.IsHigherLow = true, true
	case models.LabelLowerLow:
		ac.IsSwingLow, ac.IsLowerLow = true, true
	}
	return models.SwingPoint{
		Timestamp: c.Timestamp,
		Price:     price,
		Label:     label,
		Time:      c.Timestamp,
		Candle:    ac,
		Index:     idx,
	}
}
