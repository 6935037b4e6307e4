package upstox

import (
	"errors"
	"fmt"
	"net/http"
)

// rangeErrorMessage is the exact upstream message for a span it refuses to serve.
const rangeErrorMessage = "Invalid date range"

var (
	// ErrMissingCredential means neither the request nor the configuration carried a token.
	ErrMissingCredential = errors.New("upstox: missing access token")
	// ErrInvalidDateRange marks the one upstream rejection that is worth retrying with a narrower range.
	ErrInvalidDateRange = errors.New("upstox: invalid date range")
)

// UpstreamError is a non-success answer from the historical-candle API.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstox: status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is match ErrInvalidDateRange on a 400 carrying the range message.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrInvalidDateRange && e.Status == http.StatusBadRequest && e.Message == rangeErrorMessage
}

// RangeExhaustedError is returned once every shrink attempt was still rejected.
type RangeExhaustedError struct {
	Attempts    int
	ShrunkDays  int
	MaxSpanDays int
	Err         error
}

func (e *RangeExhaustedError) Error() string {
	return fmt.Sprintf("upstox: date range still rejected after %d attempts (from date moved %d days); try a smaller range, at most %d days for this timeframe",
		e.Attempts, e.ShrunkDays, e.MaxSpanDays)
}

func (e *RangeExhaustedError) Unwrap() error {
	return e.Err
}
