package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes a {success, data} envelope with the given status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, SuccessEnvelope{
		Success: statusCode < http.StatusBadRequest,
		Data:    data,
	})
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// ErrorResponse writes a bare {error} body.
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorEnvelope{Error: message})
}

// BadRequestResponse writes bad request error.
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "Something went wrong!")
}

// AppErrorResponse writes application error response. Errors that are not
// *AppError are reported as a generic 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Message)
	}
	return InternalServerErrorResponse(c)
}
