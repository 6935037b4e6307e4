package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "github.com/AbrarQ/algo-lambda/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a handler panic into a 500 with the generic error body.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					l.Error("panic recovered",
						applogger.Error(perr),
						applogger.String("stack", string(debug.Stack())),
					)
					err = c.JSON(http.StatusInternalServerError, map[string]string{
						"error": "Something went wrong!",
					})
				}
			}()
			return next(c)
		}
	}
}
