package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"taskflow/internal/metrics"
)

// MetricsMiddleware counts requests by route template so that ids do not
// explode label cardinality.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}
