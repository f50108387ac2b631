package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/callanalyzer/observability"
)

// unmatchedRoute labels requests gin could not route, keeping the route
// attribute bounded.
const unmatchedRoute = "unmatched"

// Metrics returns a Gin middleware that records in-flight count, total and
// duration per method, route template and status. A nil Metrics disables it.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.RecordRequestEnd(ctx, c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
