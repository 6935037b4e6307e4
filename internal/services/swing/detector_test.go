package swing

import (
	"testing"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(highs, lows []float64) []models.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(highs))
	for i := range highs {
		h := decimal.NewFromFloat(highs[i])
		l := decimal.NewFromFloat(lows[i])
		out[i] = models.Candle{
			Timestamp: start.AddDate(0, 0, i).Format("2006-01-02T15:04:05"),
			Open:      l,
			High:      h,
			Low:       l,
			Close:     h,
			Volume:    1000,
		}
	}
	return out
}

func labels(points []models.SwingPoint) []models.SwingLabel {
	out := make([]models.SwingLabel, len(points))
	for i, p := range points {
		out[i] = p.Label
	}
	return out
}

func TestDetectShortSeriesIsEmpty(t *testing.T) {
	highs := []float64{1, 2, 3, 4, 5, 6, 5, 4, 3, 2}
	lows := []float64{0, 1, 2, 3, 4, 5, 4, 3, 2, 1}

	got := NewDetector().Detect(series(highs, lows), 5)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDetectNonPositiveWindow(t *testing.T) {
	c := series([]float64{1, 3, 1}, []float64{0, 2, 0})
	assert.Empty(t, NewDetector().Detect(c, 0))
	assert.Empty(t, NewDetector().Detect(c, -2))
	assert.Empty(t, NewDetector().Detect(nil, 5))
}

func TestDetectSinglePeak(t *testing.T) {
	highs := make([]float64, 20)
	lows := make([]float64, 20)
	for i := range highs {
		d := i
		if i > 10 {
			d = 20 - i
		}
		highs[i] = 100 + float64(d)
		lows[i] = highs[i] - 5
	}

	got := NewDetector().Detect(series(highs, lows), 5)
	require.Len(t, got, 1)
	assert.Equal(t, models.LabelSwingHigh, got[0].Label)
	assert.Equal(t, 10, got[0].Index)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, got[0].Timestamp, got[0].Time)
	assert.True(t, got[0].Candle.IsSwingHigh)
	assert.False(t, got[0].Candle.IsSwingLow)
}

func TestDetectTiesNeverQualify(t *testing.T) {
	highs := []float64{1, 5, 5, 1, 1}
	lows := []float64{3, 0, 0, 3, 3}
	assert.Empty(t, NewDetector().Detect(series(highs, lows), 1))
}

func TestDetectHighLabels(t *testing.T) {
	highs := []float64{1, 3, 1, 5, 1, 4, 1, 2, 1}
	lows := make([]float64, len(highs))
	for i, h := range highs {
		lows[i] = h - 0.5
	}

	got := NewDetector().Detect(series(highs, lows), 1)
	assert.Equal(t, []models.SwingLabel{
		models.LabelSwingHigh,
		models.LabelSwingLow,
		models.LabelHigherHigh,
		models.LabelHigherLow,
		models.LabelLowerHigh,
		models.LabelHigherLow,
		models.LabelLowerHigh,
	}, labels(got))

	assert.True(t, got[2].Candle.IsHigherHigh)
	assert.True(t, got[4].Candle.IsLowerHigh)
	assert.True(t, got[3].Candle.IsHigherLow)
}

func TestDetectLowLabels(t *testing.T) {
	highs := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10}
	lows := []float64{5, 6, 3, 7, 2, 8, 4, 9, 5}

	got := NewDetector().Detect(series(highs, lows), 1)
	require.Len(t, got, 3)
	assert.Equal(t, []models.SwingLabel{
		models.LabelSwingLow,
		models.LabelLowerLow,
		models.LabelHigherLow,
	}, labels(got))
	assert.Equal(t, []int{2, 4, 6}, []int{got[0].Index, got[1].Index, got[2].Index})
	assert.True(t, got[1].Price.Equal(decimal.NewFromInt(2)))
	assert.True(t, got[1].Candle.IsLowerLow)
}

func TestDetectDegenerateBarEmitsHighFirst(t *testing.T) {
	got := NewDetector().Detect(series([]float64{5, 10, 5}, []float64{4, 1, 4}), 1)
	require.Len(t, got, 2)
	assert.Equal(t, models.LabelSwingHigh, got[0].Label)
	assert.Equal(t, models.LabelSwingLow, got[1].Label)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 1, got[1].Index)
}

func TestDetectPointsDominateNeighbourhood(t *testing.T) {
	highs := []float64{3, 7, 2, 9, 4, 4, 8, 1, 6, 5, 10, 2, 3, 7, 1}
	lows := []float64{1, 5, 0, 6, 2, 1, 7, 0, 4, 3, 8, 0, 1, 5, 0}
	c := series(highs, lows)
	w := 2

	got := NewDetector().Detect(c, w)
	require.NotEmpty(t, got)
	prev := -1
	for _, p := range got {
		require.GreaterOrEqual(t, p.Index, prev)
		prev = p.Index
		require.GreaterOrEqual(t, p.Index, w)
		require.Less(t, p.Index, len(c)-w)
		for j := p.Index - w; j <= p.Index+w; j++ {
			if j == p.Index {
				continue
			}
			if p.Label.IsHigh() {
				assert.True(t, c[p.Index].High.GreaterThan(c[j].High))
			} else {
				assert.True(t, c[p.Index].Low.LessThan(c[j].Low))
			}
		}
	}
}
