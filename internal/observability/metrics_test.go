package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/sharek-engine/internal/config"
)

func TestMetrics_Snapshot(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.RecordRequest("/api/forum/ideas", "POST", 201, 10*time.Millisecond)
	m.RecordRequest("/api/forum/ideas", "POST", 201, 30*time.Millisecond)
	m.RecordError("/api/forum/ideas", "POST", "CONTENT_FLAGGED")
	m.RecordRejection("comment")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/forum/ideas|POST|201"])
	assert.Equal(t, int64(20), snap.AvgLatencyMs["/api/forum/ideas|POST|201"])
	assert.Equal(t, int64(1), snap.Errors["/api/forum/ideas|POST|CONTENT_FLAGGED"])
	assert.Equal(t, int64(1), snap.ModerationHolds["comment"])
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordRejection("idea")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger(config.LoggerConfig{Level: "not-a-level"}, config.AppConfig{Name: "sharek-engine", Env: "test"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(0))
}

func TestRequestLogger_UnrenderedErrorStatus(t *testing.T) {
	t.Parallel()
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/teapot", func(*fiber.Ctx) error { return fiber.ErrTeapot })
	app.Get("/boom", func(*fiber.Ctx) error { return assert.AnError })

	for _, path := range []string{"/teapot", "/boom"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Requests["/teapot|GET|418"])
	assert.Equal(t, int64(1), snap.Requests["/boom|GET|500"])
}
