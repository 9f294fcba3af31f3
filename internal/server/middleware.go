package server

import (
	"strconv"
	"time"

	"gymcore/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counts and latency by route template.
// Unmatched routes are grouped under "unmatched" to keep label cardinality
// bounded.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
