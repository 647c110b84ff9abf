package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(logOut *bytes.Buffer, reg *prometheus.Registry) *fiber.App {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(zerolog.New(logOut)))
	app.Use(middleware.NewMetrics(reg).Handler())

	app.Get("/products", func(c *fiber.Ctx) error {
		return c.JSON([]string{})
	})
	app.Post("/products", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All fields are required"})
	})
	app.Delete("/products/:id", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "down")
	})
	return app
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	app := newTestApp(&logs, prometheus.NewRegistry())

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/products/9", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	out := logs.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"path":"/products/9"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"request_id":"`)

	logs.Reset()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), `"status":503`)
}

func TestMetrics(t *testing.T) {
	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	app := newTestApp(&logs, reg)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/products", nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/products/42", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	expected := `
# HELP catalog_http_requests_total Total number of HTTP requests handled by the catalog service
# TYPE catalog_http_requests_total counter
catalog_http_requests_total{method="DELETE",route="/products/:id",status="404"} 1
catalog_http_requests_total{method="GET",route="/products",status="200"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "catalog_http_requests_total"))
}

func TestMetrics_LabelsSurviveLaterRequests(t *testing.T) {
	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	app := newTestApp(&logs, reg)

	requests := []struct{ method, path string }{
		{http.MethodDelete, "/products/12345"},
		{http.MethodGet, "/products"},
		{http.MethodPost, "/products"},
		{http.MethodDelete, "/products/7"},
		{http.MethodGet, "/products"},
	}
	for _, r := range requests {
		resp, err := app.Test(httptest.NewRequest(r.method, r.path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	expected := `
# HELP catalog_http_requests_total Total number of HTTP requests handled by the catalog service
# TYPE catalog_http_requests_total counter
catalog_http_requests_total{method="DELETE",route="/products/:id",status="404"} 2
catalog_http_requests_total{method="GET",route="/products",status="200"} 2
catalog_http_requests_total{method="POST",route="/products",status="400"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "catalog_http_requests_total"))
}
