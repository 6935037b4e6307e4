package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/domain/models"
	domrepo "github.com/AbrarQ/algo-lambda/internal/domain/repository"
	domsvc "github.com/AbrarQ/algo-lambda/internal/domain/service"
	xlogger "github.com/AbrarQ/algo-lambda/pkg/logger"
	"github.com/AbrarQ/algo-lambda/pkg/metrics"
	"github.com/AbrarQ/algo-lambda/pkg/util"
)

const (
	// processedTimeframe is the fixed timeframe tag on every ProcessedCompany.
	processedTimeframe = 1
	defaultWindow      = 5
	defaultTimeout     = 2 * time.Minute
)

// ErrInvalidFromDate is returned when the caller's fromDate cannot be used.
var ErrInvalidFromDate = errors.New("invalid fromDate")

// SwingPointsUseCase fetches every selected timeframe and turns each series into swing points.
type SwingPointsUseCase struct {
	provider  domrepo.CandleProvider
	chunks    domrepo.RangeFetcher
	detector  domsvc.SwingDetector
	annotator domsvc.Annotator
	window    int
	timeout   time.Duration
	now       func() time.Time
	logger    *xlogger.Logger
	metrics   domrepo.Metrics
}

type SwingOption func(*SwingPointsUseCase)

func NewSwingPointsUseCase(
	provider domrepo.CandleProvider,
	chunks domrepo.RangeFetcher,
	detector domsvc.SwingDetector,
	opts ...SwingOption,
) *SwingPointsUseCase {
	uc := &SwingPointsUseCase{
		provider: provider,
		chunks:   chunks,
		detector: detector,
		window:   defaultWindow,
		timeout:  defaultTimeout,
		now:      time.Now,
		logger:   xlogger.Nop(),
		metrics:  metrics.Nop{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func WithWindow(w int) SwingOption {
	return func(uc *SwingPointsUseCase) { uc.window = w }
}

// WithAnnotator enables indicator values on swing point candles.
func WithAnnotator(a domsvc.Annotator) SwingOption {
	return func(uc *SwingPointsUseCase) { uc.annotator = a }
}

// WithClock replaces time.Now as the source of the request's to date.
func WithClock(now func() time.Time) SwingOption {
	return func(uc *SwingPointsUseCase) { uc.now = now }
}

func WithTimeout(d time.Duration) SwingOption {
	return func(uc *SwingPointsUseCase) { uc.timeout = d }
}

func WithLogger(l *xlogger.Logger) SwingOption {
	return func(uc *SwingPointsUseCase) {
		if l != nil {
			uc.logger = l
		}
	}
}

func WithMetrics(m domrepo.Metrics) SwingOption {
	return func(uc *SwingPointsUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

type ProcessParams struct {
	Instrument  string
	CompanyName string
	FromDate    string
	Selection   models.TimeframeSelection
	Credential  string
}

type seriesResult struct {
	tf      domrepo.Timeframe
	candles []models.Candle
	err     error
}

// Process returns nil, nil when nothing is selected or no timeframe produced candles.
// Any fetch failure cancels the other timeframes and fails the whole call.
func (uc *SwingPointsUseCase) Process(ctx context.Context, p ProcessParams) (*models.ProcessedCompany, error) {
	if !p.Selection.Any() {
		return nil, nil
	}

	start := time.Now()
	defer func() { uc.metrics.RecordLatency("process", time.Since(start).Seconds()) }()

	r, err := uc.dateRange(p.FromDate)
	if err != nil {
		return nil, err
	}

	if uc.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, uc.timeout)
		defer cancelTimeout()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	selected := selectedTimeframes(p.Selection)
	ch := make(chan seriesResult, len(selected))
	var wg sync.WaitGroup
	for _, tf := range selected {
		wg.Add(1)
		go func(tf domrepo.Timeframe) {
			defer wg.Done()
			candles, err := uc.fetch(ctx, p, tf, r)
			if err != nil {
				cancel()
			}
			ch <- seriesResult{tf: tf, candles: candles, err: err}
		}(tf)
	}
	go func() { wg.Wait(); close(ch) }()

	series := make(map[domrepo.Timeframe][]models.Candle, len(selected))
	var fetchErr error
	for it := range ch {
		if it.err != nil {
			// keep the root cause rather than a sibling's cancellation
			if fetchErr == nil || (isCancellation(fetchErr) && !isCancellation(it.err)) {
				fetchErr = fmt.Errorf("fetch %s: %w", it.tf, it.err)
			}
			continue
		}
		if len(it.candles) > 0 {
			series[it.tf] = models.Reverse(it.candles)
		}
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		uc.logger.Info("no candles for any selected timeframe",
			xlogger.String("instrument", p.Instrument),
			xlogger.Date("from", r.From),
			xlogger.Date("to", r.To),
		)
		return nil, nil
	}

	return &models.ProcessedCompany{
		InstrumentKey:    p.Instrument,
		CompanyName:      p.CompanyName,
		Timeframe:        processedTimeframe,
		SwingPointsDay:   uc.swingPoints(domrepo.TF1D, series[domrepo.TF1D]),
		SwingPoints4H:    uc.swingPoints(domrepo.TF4H, series[domrepo.TF4H]),
		SwingPoints1H:    uc.swingPoints(domrepo.TF1H, series[domrepo.TF1H]),
		SwingPoints15Min: uc.swingPoints(domrepo.TF15Min, series[domrepo.TF15Min]),
	}, nil
}

func (uc *SwingPointsUseCase) dateRange(fromDate string) (domrepo.DateRange, error) {
	today := util.Day(uc.now())
	if fromDate == "" {
		return domrepo.DateRange{From: today.AddDate(-1, 0, 0), To: today}, nil
	}
	from, err := util.ParseDate(fromDate)
	if err != nil {
		return domrepo.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidFromDate, err)
	}
	if from.After(today) {
		return domrepo.DateRange{}, fmt.Errorf("%w: %s is in the future", ErrInvalidFromDate, fromDate)
	}
	return domrepo.DateRange{From: from, To: today}, nil
}

// fetch returns newest-first candles for tf. Daily data fits one request, finer
// timeframes go through the chunked fetcher.
func (uc *SwingPointsUseCase) fetch(ctx context.Context, p ProcessParams, tf domrepo.Timeframe, r domrepo.DateRange) ([]models.Candle, error) {
	if !tf.IsIntraday() {
		return uc.provider.FetchCandles(ctx, domrepo.HistoricalRequest{
			Instrument: p.Instrument,
			Timeframe:  tf,
			ToDate:     r.To,
			FromDate:   r.From,
			Credential: p.Credential,
		})
	}
	return uc.chunks.FetchInChunks(ctx, p.Instrument, tf, r, p.Credential)
}

// swingPoints returns nil for a timeframe without candles.
func (uc *SwingPointsUseCase) swingPoints(tf domrepo.Timeframe, chrono []models.Candle) []models.SwingPoint {
	if len(chrono) == 0 {
		return nil
	}
	points := uc.detector.Detect(chrono, uc.window)
	if uc.annotator != nil {
		uc.annotator.Annotate(chrono, points)
	}
	for i := range points {
		ts := util.StripZone(points[i].Timestamp)
		points[i].Timestamp = ts
		points[i].Time = ts
		points[i].Candle.Timestamp = util.StripZone(points[i].Candle.Timestamp)
	}
	uc.metrics.RecordSwingPoints(tf.String(), len(points))
	return points
}

func selectedTimeframes(s models.TimeframeSelection) []domrepo.Timeframe {
	out := make([]domrepo.Timeframe, 0, 4)
	if s.OneDay {
		out = append(out, domrepo.TF1D)
	}
	if s.FourHour {
		out = append(out, domrepo.TF4H)
	}
	if s.OneHour {
		out = append(out, domrepo.TF1H)
	}
	if s.FifteenMin {
		out = append(out, domrepo.TF15Min)
	}
	return out
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
