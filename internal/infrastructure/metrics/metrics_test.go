package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/infrastructure/metrics"
)

func TestMiddleware_CuentaPeticionesPorRuta(t *testing.T) {
	m := metrics.New("test")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", m.Handler())

	for _, id := range []string{"1", "2"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `test_http_requests_total{method="GET",path="/items/:id",status="204"} 2`)
	assert.Contains(t, string(body), "test_http_request_duration_seconds_bucket")
}
