package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusBucket(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{503, "5xx"},
		{0, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusBucket(tt.code), "code %d", tt.code)
	}
}

func TestObserveAnalysis(t *testing.T) {
	beforeHigh := testutil.ToFloat64(AnalysesTotal.WithLabelValues("high", "video"))
	beforeBlocked := testutil.ToFloat64(ThreatsBlockedTotal)

	ObserveAnalysis("high", "video", true)
	ObserveAnalysis("safe", "video", false)

	assert.Equal(t, beforeHigh+1, testutil.ToFloat64(AnalysesTotal.WithLabelValues("high", "video")))
	assert.Equal(t, beforeBlocked+1, testutil.ToFloat64(ThreatsBlockedTotal))
}

func TestMiddlewareAndEndpoint(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/metrics", Handler())
	app.Get("/api/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/items/:id", "2xx"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/items/:id", "2xx")))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "safeview_http_requests_total")
}
