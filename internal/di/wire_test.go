package di

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AbrarQ/algo-lambda/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	cfg, err := config.Load("does-not-exist.yaml")
	require.NoError(t, err)
	cfg.Upstox.Mode = mode
	cfg.Upstox.AccessToken = ""
	cfg.Log.Level = "error"
	cfg.Metrics.Enabled = false
	cfg.RateLimit.Enabled = false
	return cfg
}

func post(t *testing.T, cfg *config.Config, body string) *httptest.ResponseRecorder {
	t.Helper()
	app, err := InitializeApp(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/swing-points/calculate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	app.Server().Echo().ServeHTTP(rec, req)
	return rec
}

func TestInitializeAppMockMode(t *testing.T) {
	rec := post(t, testConfig(t, config.ModeMock),
		`{"instrumentKey":"NSE_EQ|INE002A01018","companyName":"Reliance","timeFrameSelection":{"daySwings":true}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			InstrumentKey  string            `json:"instrumentKey"`
			Timeframe      int               `json:"timeframe"`
			SwingPointsDay []json.RawMessage `json:"swingPointsDay"`
			SwingPoints1H  []json.RawMessage `json:"swingPoints1H"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "NSE_EQ|INE002A01018", out.Data.InstrumentKey)
	assert.Equal(t, 1, out.Data.Timeframe)
	assert.NotEmpty(t, out.Data.SwingPointsDay)
	assert.Nil(t, out.Data.SwingPoints1H)
}

func TestInitializeAppLiveWithoutToken(t *testing.T) {
	rec := post(t, testConfig(t, config.ModeLive),
		`{"instrumentKey":"NSE_EQ|INE002A01018","companyName":"Reliance","timeFrameSelection":{"daySwings":true}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to calculate swing points"}`, rec.Body.String())
}
