package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"event_org/internal/telemetry"
)

// Metrics records request count and latency per route template. Register it
// outside Recovery so panics are counted with the 500 written for them.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "<no-route>"
		}
		method := c.Request.Method
		telemetry.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
