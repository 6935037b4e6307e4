package models

import "github.com/shopspring/decimal"

type SwingLabel string

const (
	LabelHigherHigh SwingLabel = "HigherHigh"
	LabelLowerHigh  SwingLabel = "LowerHigh"
	LabelHigherLow  SwingLabel = "HigherLow"
	LabelLowerLow   SwingLabel = "LowerLow"
	LabelSwingHigh  SwingLabel = "SwingHigh"
	LabelSwingLow   SwingLabel = "SwingLow"
)

// IsHigh reports whether the label belongs to a swing high.
func (l SwingLabel) IsHigh() bool {
	return l == LabelHigherHigh || l == LabelLowerHigh || l == LabelSwingHigh
}

// SwingPoint is a confirmed local extremum. Price is the candle high for highs
// and the candle low for lows; Time mirrors Timestamp.
type SwingPoint struct {
	Timestamp string          `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Label     SwingLabel      `json:"label"`
	Time      string          `json:"time"`
	Candle    AnnotatedCandle `json:"candle"`
	Index     int             `json:"-"`
}

// ProcessedCompany is the calculate endpoint payload. A nil list means the
// timeframe was not selected or returned no candles.
type ProcessedCompany struct {
	InstrumentKey    string       `json:"instrumentKey"`
	CompanyName      string       `json:"companyName"`
	Timeframe        int          `json:"timeframe"`
	SwingPointsDay   []SwingPoint `json:"swingPointsDay"`
	SwingPoints4H    []SwingPoint `json:"swingPoints4H"`
	SwingPoints1H    []SwingPoint `json:"swingPoints1H"`
	SwingPoints15Min []SwingPoint `json:"swingPoints15Min"`
}

// TimeframeSelection says which timeframes to fetch. Unselected ones are never requested.
type TimeframeSelection struct {
	FifteenMin bool
	OneHour    bool
	FourHour   bool
	OneDay     bool
}

// Any reports whether at least one timeframe is selected.
func (s TimeframeSelection) Any() bool {
	return s.FifteenMin || s.OneHour || s.FourHour || s.OneDay
}
