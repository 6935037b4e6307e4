package models

import "github.com/shopspring/decimal"

func init() {
	// prices go out as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Candle is one OHLCV bar as returned by the upstream provider. Timestamps are
// wall-clock strings with any zone suffix already removed.
type Candle struct {
	Timestamp    string          `json:"timestamp"`
	Open         decimal.Decimal `json:"open"`
	High         decimal.Decimal `json:"high"`
	Low          decimal.Decimal `json:"low"`
	Close        decimal.Decimal `json:"close"`
	Volume       int64           `json:"volume"`
	OpenInterest int64           `json:"openInterest"`
}

// AnnotatedCandle is a Candle plus the derived flags and indicators attached
// to it when it becomes a swing point.
type AnnotatedCandle struct {
	Candle
	IsSwingHigh  bool     `json:"isSwingHigh,omitempty"`
	IsSwingLow   bool     `json:"isSwingLow,omitempty"`
	IsHigherHigh bool     `json:"isHigherHigh,omitempty"`
	IsLowerHigh  bool     `json:"isLowerHigh,omitempty"`
	IsHigherLow  bool     `json:"isHigherLow,omitempty"`
	IsLowerLow   bool     `json:"isLowerLow,omitempty"`
	EMA8         *float64 `json:"ema8,omitempty"`
	EMA30        *float64 `json:"ema30,omitempty"`
	RSI          *float64 `json:"rsi,omitempty"`
}

// Reverse returns a new slice with the candles in the opposite order.
func Reverse(in []Candle) []Candle {
	out := make([]Candle, len(in))
	for i, c := range in {
		out[len(in)-1-i] = c
	}
	return out
}
