package upstox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/domain/models"
	domrepo "github.com/AbrarQ/algo-lambda/internal/domain/repository"
	xhttp "github.com/AbrarQ/algo-lambda/pkg/http"
	xlogger "github.com/AbrarQ/algo-lambda/pkg/logger"
	"github.com/AbrarQ/algo-lambda/pkg/metrics"
	"github.com/AbrarQ/algo-lambda/pkg/util"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://api.upstox.com/v3"
	DefaultMaxRetries = 3
	DefaultShrinkDays = 10
	DefaultRetryPause = time.Second

	statusSuccess = "success"
)

// Client calls the Upstox v3 historical-candle endpoint. FetchWithRetry narrows
// the requested range when the upstream rejects it as too wide.
type Client struct {
	http       *xhttp.Client
	baseURL    string
	token      string
	maxRetries int
	shrinkDays int
	newBackOff func() backoff.BackOff
	limiter    *rate.Limiter
	logger     *xlogger.Logger
	metrics    domrepo.Metrics
}

type Option func(*Client)

// NewClient creates a client with the upstream defaults: three retries moving the
// from date ten days each, one second apart.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		maxRetries: DefaultMaxRetries,
		shrinkDays: DefaultShrinkDays,
		newBackOff: func() backoff.BackOff { return backoff.NewConstantBackOff(DefaultRetryPause) },
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     xlogger.Nop(),
		metrics:    metrics.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient()
	}
	return c
}

func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithAccessToken sets the token used when a request carries no credential of its own.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

func WithShrinkDays(days int) Option {
	return func(c *Client) { c.shrinkDays = days }
}

// WithRetryPause waits d between range-shrink attempts.
func WithRetryPause(d time.Duration) Option {
	return func(c *Client) {
		c.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(d) }
	}
}

// WithBackOff supplies the pause policy; a fresh BackOff is built per FetchWithRetry call.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = f }
}

// WithRateLimit paces outgoing requests across all callers sharing the client.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func WithLogger(l *xlogger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// FetchCandles implements repository.CandleProvider.
func (c *Client) FetchCandles(ctx context.Context, req domrepo.HistoricalRequest) ([]models.Candle, error) {
	return c.FetchWithRetry(ctx, req)
}

// attempt is the state of one pass through the retry loop.
type attempt struct {
	n    int
	from time.Time
}

func (a attempt) next(shrinkDays int) attempt {
	return attempt{n: a.n + 1, from: a.from.AddDate(0, 0, shrinkDays)}
}

// FetchWithRetry fetches candles newest-first. A 400 "Invalid date range" moves
// the from date forward by the shrink step and tries again, up to maxRetries
// times. Every other failure is returned as is.
func (c *Client) FetchWithRetry(ctx context.Context, req domrepo.HistoricalRequest) ([]models.Candle, error) {
	token, err := c.credential(req)
	if err != nil {
		return nil, err
	}
	req.Credential = token
	c.warnIfTooWide(req)

	pause := c.newBackOff()
	cur := attempt{from: req.FromDate}
	for {
		r := req
		r.FromDate = cur.from

		candles, err := c.FetchOnce(ctx, r)
		if err == nil {
			if cur.n > 0 {
				c.logger.Info("upstox range accepted after shrinking",
					xlogger.String("instrument", req.Instrument),
					xlogger.String("timeframe", req.Timeframe.String()),
					xlogger.Date("from", cur.from),
					xlogger.Int("attempt", cur.n+1),
				)
			}
			return candles, nil
		}

		if !errors.Is(err, ErrInvalidDateRange) {
			return nil, err
		}
		if !req.HasFrom() {
			return nil, fmt.Errorf("no from date to narrow: %w", err)
		}

		next := cur.next(c.shrinkDays)
		if cur.n >= c.maxRetries || next.from.After(req.ToDate) {
			exhausted := &RangeExhaustedError{
				Attempts:    cur.n + 1,
				ShrunkDays:  cur.n * c.shrinkDays,
				MaxSpanDays: MaxSpanDays(req.Timeframe),
				Err:         err,
			}
			c.logger.Error("upstox range retries exhausted",
				xlogger.String("instrument", req.Instrument),
				xlogger.String("timeframe", req.Timeframe.String()),
				xlogger.Int("reduced_days", exhausted.ShrunkDays),
				xlogger.Int("max_span_days", exhausted.MaxSpanDays),
			)
			return nil, exhausted
		}

		c.metrics.RecordRangeShrink(req.Timeframe.String())
		c.logger.Warn("upstox rejected date range, narrowing",
			xlogger.String("instrument", req.Instrument),
			xlogger.String("timeframe", req.Timeframe.String()),
			xlogger.Date("from", cur.from),
			xlogger.Date("next_from", next.from),
			xlogger.Int("attempt", cur.n+1),
		)

		if err := wait(ctx, pause); err != nil {
			return nil, err
		}
		cur = next
	}
}

// FetchOnce issues a single upstream request without any retry.
func (c *Client) FetchOnce(ctx context.Context, req domrepo.HistoricalRequest) ([]models.Candle, error) {
	token, err := c.credential(req)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	tf := req.Timeframe.String()
	start := time.Now()
	var payload candleResponse
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.endpoint(req),
		Headers: map[string]string{
			"Accept":        "application/json",
			"Authorization": "Bearer " + token,
		},
	}, &payload)
	c.metrics.RecordLatency("upstox_fetch", time.Since(start).Seconds())

	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			c.metrics.RecordUpstreamRequest(tf, strconv.Itoa(se.StatusCode))
			return nil, &UpstreamError{Status: se.StatusCode, Message: errorMessage(se.Body)}
		}
		c.metrics.RecordUpstreamRequest(tf, "error")
		return nil, fmt.Errorf("upstox request %s: %w", tf, err)
	}
	if payload.Status != statusSuccess {
		c.metrics.RecordUpstreamRequest(tf, "bad_payload")
		return nil, &UpstreamError{Status: http.StatusOK, Message: fmt.Sprintf("payload status %q", payload.Status)}
	}
	c.metrics.RecordUpstreamRequest(tf, "ok")

	candles, err := parseRows(payload.Data.Candles)
	if err != nil {
		return nil, fmt.Errorf("upstox payload %s: %w", tf, err)
	}
	c.logger.Debug("upstox candles fetched",
		xlogger.String("instrument", req.Instrument),
		xlogger.String("timeframe", tf),
		xlogger.Int("count", len(candles)),
	)
	return candles, nil
}

func (c *Client) credential(req domrepo.HistoricalRequest) (string, error) {
	if req.Credential != "" {
		return req.Credential, nil
	}
	if c.token != "" {
		return c.token, nil
	}
	return "", ErrMissingCredential
}

func (c *Client) endpoint(req domrepo.HistoricalRequest) string {
	parts := []string{
		c.baseURL,
		"historical-candle",
		url.PathEscape(req.Instrument),
		string(req.Timeframe.Unit),
		strconv.Itoa(req.Timeframe.Interval),
		util.FormatDate(req.ToDate),
	}
	if req.HasFrom() {
		parts = append(parts, util.FormatDate(req.FromDate))
	}
	return strings.Join(parts, "/")
}

func (c *Client) warnIfTooWide(req domrepo.HistoricalRequest) {
	limit := MaxSpanDays(req.Timeframe)
	if !req.HasFrom() {
		return
	}
	span := util.DaysBetween(req.FromDate, req.ToDate)
	if span <= limit {
		return
	}
	c.logger.Warn("requested range exceeds upstream limit",
		xlogger.String("instrument", req.Instrument),
		xlogger.String("timeframe", req.Timeframe.String()),
		xlogger.Int("span_days", span),
		xlogger.Int("max_span_days", limit),
		xlogger.Date("suggested_from", SuggestedFrom(req.Timeframe, req.ToDate)),
	)
}

func wait(ctx context.Context, b backoff.BackOff) error {
	d := b.NextBackOff()
	if d == backoff.Stop {
		return errors.New("retry pause policy stopped")
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context canceled during backoff: %w", ctx.Err())
	}
}

type candleResponse struct {
	Status string `json:"status"`
	Data   struct {
		Candles [][]json.RawMessage `json:"candles"`
	} `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Errors  []struct {
		ErrorCode string `json:"errorCode"`
		Message   string `json:"message"`
	} `json:"errors"`
}

func errorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return strings.TrimSpace(string(body))
	}
	if e.Message != "" {
		return e.Message
	}
	for _, item := range e.Errors {
		if item.Message != "" {
			return item.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// parseRows converts [timestamp, open, high, low, close, volume, oi] rows.
func parseRows(rows [][]json.RawMessage) ([]models.Candle, error) {
	out := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("row %d: want at least 6 fields, got %d", i, len(row))
		}
		var ts string
		if err := json.Unmarshal(row[0], &ts); err != nil {
			return nil, fmt.Errorf("row %d timestamp: %w", i, err)
		}
		nums := make([]decimal.Decimal, 6)
		for j := 1; j < len(row) && j <= 6; j++ {
			if err := nums[j-1].UnmarshalJSON(row[j]); err != nil {
				return nil, fmt.Errorf("row %d field %d: %w", i, j, err)
			}
		}
		out = append(out, models.Candle{
			Timestamp:    util.StripZone(ts),
			Open:         nums[0],
			High:         nums[1],
			Low:          nums[2],
			Close:        nums[3],
			Volume:       nums[4].IntPart(),
			OpenInterest: nums[5].IntPart(),
		})
	}
	return out, nil
}
