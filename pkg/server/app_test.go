package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AbrarQ/algo-lambda/internal/service/ratelimit"
	"github.com/AbrarQ/algo-lambda/pkg/config"
	applogger "github.com/AbrarQ/algo-lambda/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("does-not-exist.yaml")
	require.NoError(t, err)
	cfg.Server.Port = 0
	cfg.Metrics.Enabled = false
	return cfg
}

func TestAppServesHandler(t *testing.T) {
	app := New(testConfig(t), applogger.Nop(), pingHandler{}, nil)

	rec := httptest.NewRecorder()
	app.Server().Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestAppRunContextStopsOnCancel(t *testing.T) {
	app := New(testConfig(t), applogger.Nop(), pingHandler{}, ratelimit.New(1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not shut down")
	}
}
