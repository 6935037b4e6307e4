package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func corsRequest(cfg CORSConfig, method string, headers map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	e.Use(CORS(cfg))
	e.Any("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(method, "/x", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCORSPreflight(t *testing.T) {
	cfg := CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderContentType},
		MaxAge:       10 * time.Minute,
	}
	rec := corsRequest(cfg, http.MethodOptions, map[string]string{
		echo.HeaderOrigin:                     "http://localhost:5173",
		echo.HeaderAccessControlRequestMethod: http.MethodPost,
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET, POST", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}

func TestCORSSimpleRequest(t *testing.T) {
	cfg := CORSConfig{AllowOrigins: []string{"https://app.example.com"}, ExposeHeaders: []string{echo.HeaderXRequestID}}

	rec := corsRequest(cfg, http.MethodGet, map[string]string{echo.HeaderOrigin: "https://app.example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, echo.HeaderXRequestID, rec.Header().Get(echo.HeaderAccessControlExposeHeaders))

	rec = corsRequest(cfg, http.MethodGet, map[string]string{echo.HeaderOrigin: "https://evil.example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestCORSWildcardWithoutOrigin(t *testing.T) {
	rec := corsRequest(CORSConfig{AllowOrigins: []string{"*"}}, http.MethodGet, nil)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
