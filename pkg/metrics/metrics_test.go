package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics("marketplace", reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/missing", func(c echo.Context) error { return echo.ErrNotFound })

	for _, path := range []string{"/ok", "/ok", "/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("marketplace", "GET", "/ok", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("marketplace", "GET", "/missing", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusCodeCategoryCounter.WithLabelValues("marketplace", "4xx", "GET", "/missing")))
}

func TestMarketplaceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMarketplace("marketplace", reg)

	m.RecordOrderPlaced(3)
	m.RecordOrderPlaced(2)
	m.RecordPayment("Completed")
	m.RecordOrderStatusChange("Shipped")
	m.RecordAuthError("invalid_credentials")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.unitsSold))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("Completed")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMarketplaceIsSafe(t *testing.T) {
	var m *Marketplace
	assert.NotPanics(t, func() {
		m.RecordOrderPlaced(1)
		m.RecordPayment("Pending")
		m.RecordOrderStatusChange("Paid")
		m.RecordAuthError("x")
	})
}
