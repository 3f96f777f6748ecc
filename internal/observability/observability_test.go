package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/daily-report-service/internal/config"
	apperrors "github.com/spec-kit/daily-report-service/pkg/util/errorutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/auth/login", "POST", 200, 10*time.Millisecond)
	m.RecordRequest("/api/auth/login", "POST", 200, 10*time.Millisecond)
	m.RecordError("/api/auth/me", "GET", "UNAUTHORIZED")
	m.RecordAuthEvent("token_rejected", "expired")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestCount.WithLabelValues("/api/auth/login", "POST", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.errorCount.WithLabelValues("/api/auth/me", "GET", "UNAUTHORIZED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.authEvents.WithLabelValues("token_rejected", "expired")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordAuthEvent("logout", "")
	})
}

func TestMetricsHandlerServesRegistry(t *testing.T) {
	m := NewMetrics()
	m.RecordAuthEvent("login_succeeded", "")

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "daily_report_auth_events_total")
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), m))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})
	app.Get("/denied", func(c *fiber.Ctx) error {
		return apperrors.NewUnauthorized("Unauthorized")
	})

	t.Run("assigns a request id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		id := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, string(body))
	})

	t.Run("propagates an incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
	})

	t.Run("logs the error status", func(t *testing.T) {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/denied", nil))
		require.NoError(t, err)

		entries := logs.FilterField(zap.Int("status", http.StatusUnauthorized)).All()
		require.Len(t, entries, 1)
		assert.Equal(t, "request", entries[0].Message)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues("/denied", "GET", "401")))
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "DEBUG"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "chatty"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
