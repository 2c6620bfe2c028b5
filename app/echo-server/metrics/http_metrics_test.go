package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkgmetrics "okazjeplus/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, pkgmetrics.HTTPRequests.WithLabelValues(labels...).Write(&m))
	return m.GetCounter().GetValue()
}

func TestMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/segments/:user_id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "down")
	})

	var codes []int
	for _, path := range []string{"/segments/u1", "/segments/u2", "/fail"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{200, 200, 503}, codes)
	assert.Equal(t, 2.0, counterValue(t, "GET", "/segments/:user_id", "2xx"))
	assert.Equal(t, 1.0, counterValue(t, "GET", "/fail", "5xx"))
}

func TestMiddleware_CountsRecoveredPanics(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.Use(echomiddleware.Recover())
	e.GET("/panics", func(c echo.Context) error {
		panic("handler bug")
	})

	before := counterValue(t, "GET", "/panics", "5xx")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panics", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, before+1, counterValue(t, "GET", "/panics", "5xx"))
}
