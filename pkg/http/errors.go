package http

import (
	"errors"
	"fmt"
	"net/http"

	applogger "github.com/AbrarQ/algo-lambda/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
	}
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return NewAppError("ERR_BAD_REQUEST", "", message, http.StatusBadRequest)
}

// TooManyRequestsError creates a 429 error.
func TooManyRequestsError(message string) *AppError {
	return NewAppError("ERR_RATE_LIMITED", "", message, http.StatusTooManyRequests)
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError("ERR_INTERNAL", "", message, http.StatusInternalServerError)
}

// StatusError is returned by Client for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// ErrorHandler renders errors that escape handlers. Unknown routes get a
// Not Found body naming the path, anything unexpected a generic 500.
func ErrorHandler(l *applogger.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code == http.StatusNotFound {
				_ = c.JSON(http.StatusNotFound, ErrorEnvelope{
					Error:   "Not Found",
					Message: fmt.Sprintf("Route %s not found", c.Request().URL.Path),
				})
				return
			}
			_ = c.JSON(he.Code, ErrorEnvelope{Error: fmt.Sprintf("%v", he.Message)})
			return
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			_ = c.JSON(appErr.Status, ErrorEnvelope{Error: appErr.Message})
			return
		}

		l.Error("unhandled error", applogger.Error(err), applogger.String("path", c.Request().URL.Path))
		body := ErrorEnvelope{Error: "Something went wrong!"}
		if debug {
			body.Message = err.Error()
		}
		_ = c.JSON(http.StatusInternalServerError, body)
	}
}
