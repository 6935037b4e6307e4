package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/domain/models"
	svcmetrics "github.com/AbrarQ/algo-lambda/internal/service/metrics"
	"github.com/AbrarQ/algo-lambda/internal/service/ratelimit"
	"github.com/AbrarQ/algo-lambda/internal/usecase"
	xhttp "github.com/AbrarQ/algo-lambda/pkg/http"
	xlogger "github.com/AbrarQ/algo-lambda/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	serviceName = "algo-lambda"
	apiVersion  = "1.0.0"

	msgMissingFields = "instrumentKey and companyName are required"
	msgCalcFailed    = "Failed to calculate swing points"
	msgRateLimited   = "Too many requests"

	endpointCalculate = "calculate"
)

// SwingPointsProcessor is the use case behind POST /api/swing-points/calculate.
type SwingPointsProcessor interface {
	Process(ctx context.Context, p usecase.ProcessParams) (*models.ProcessedCompany, error)
}

type SwingPointsHandler struct {
	logger    *xlogger.Logger
	processor SwingPointsProcessor
	limiter   *ratelimit.Limiter
	now       func() time.Time
}

type HandlerOption func(*SwingPointsHandler)

// WithRateLimiter throttles the calculate endpoint per client address.
func WithRateLimiter(l *ratelimit.Limiter) HandlerOption {
	return func(h *SwingPointsHandler) { h.limiter = l }
}

func WithHandlerClock(now func() time.Time) HandlerOption {
	return func(h *SwingPointsHandler) { h.now = now }
}

func NewSwingPointsHandler(logger *xlogger.Logger, processor SwingPointsProcessor, opts ...HandlerOption) *SwingPointsHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &SwingPointsHandler{logger: logger, processor: processor, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	svcmetrics.Register()
	return h
}

func (h *SwingPointsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Welcome)
	e.GET("/health", h.Health)

	g := e.Group("/api/swing-points")
	g.POST("/calculate", h.Calculate)
}

func (h *SwingPointsHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, models.WelcomeResponse{
		Message: "Welcome to Algo Lambda API",
		Version: apiVersion,
		Endpoints: map[string]string{
			"health":      "/health",
			"swingPoints": "/api/swing-points",
		},
	})
}

func (h *SwingPointsHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Service:   serviceName,
	})
}

// Calculate answers {success:true, data} where data is null when nothing was
// selected or no candles came back.
func (h *SwingPointsHandler) Calculate(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.HandlerLatency.WithLabelValues(endpointCalculate).Observe(time.Since(start).Seconds())
	}()

	log := h.logger.With(xlogger.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))

	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		svcmetrics.HandlerErrors.WithLabelValues(endpointCalculate, "rate_limited").Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError(msgRateLimited))
	}

	req := &models.CalculateSwingPointsRequest{}
	if verrs := xhttp.ReadAndValidateRequest(c, req); verrs != nil {
		svcmetrics.HandlerErrors.WithLabelValues(endpointCalculate, "validation").Inc()
		log.Warn("invalid swing points request", xlogger.Any("errors", verrs))
		return xhttp.BadRequestResponse(c, validationMessage(verrs))
	}

	log.Info("calculating swing points",
		xlogger.String("instrument", req.InstrumentKey),
		xlogger.String("company", req.CompanyName),
		xlogger.String("from", req.FromDate),
		xlogger.Int("lookback", req.Lookback),
	)

	res, err := h.processor.Process(c.Request().Context(), usecase.ProcessParams{
		Instrument:  req.InstrumentKey,
		CompanyName: req.CompanyName,
		FromDate:    req.FromDate,
		Selection:   req.TimeFrameSelection.Selection(),
		Credential:  bearerToken(c.Request()),
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidFromDate) {
			svcmetrics.HandlerErrors.WithLabelValues(endpointCalculate, "validation").Inc()
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
		}
		svcmetrics.HandlerErrors.WithLabelValues(endpointCalculate, "internal").Inc()
		log.Error("swing points usecase error",
			xlogger.String("instrument", req.InstrumentKey),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.InternalError(msgCalcFailed).WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// validationMessage collapses missing identity fields into one message.
func validationMessage(verrs []xhttp.ValidationError) string {
	for _, v := range verrs {
		if v.Field == "instrumentKey" || v.Field == "companyName" {
			return msgMissingFields
		}
	}
	return verrs[0].Message
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
