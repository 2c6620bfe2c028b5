package metrics

import (
	"fmt"
	"time"

	pkgmetrics "okazjeplus/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Middleware records latency and count per route template. Unmatched routes
// share one label so scanners cannot blow up cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := fmt.Sprintf("%dxx", c.Response().Status/100)

			pkgmetrics.HTTPRequestLatency.WithLabelValues(c.Request().Method, route, status).
				Observe(time.Since(start).Seconds())
			pkgmetrics.HTTPRequests.WithLabelValues(c.Request().Method, route, status).Inc()

			return nil
		}
	}
}
