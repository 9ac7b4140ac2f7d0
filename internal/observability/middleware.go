package observability

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danmuck/qimsg/internal/logging"
)

// RequestLogger logs one line per completed admin HTTP request at a level
// derived from its status code.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := "method=%s path=%s status=%d duration=%s client_ip=%s bytes=%d"
		args := []any{c.Request.Method, path, status, time.Since(start), c.ClientIP(), c.Writer.Size()}

		switch {
		case status >= 500:
			logging.Errorf(fields, args...)
		case status >= 400:
			logging.Warnf(fields, args...)
		default:
			logging.Infof(fields, args...)
		}
	}
}

// RequestMetricsMiddleware records Prometheus counters/histograms for every
// admin HTTP request handled under node.
func RequestMetricsMiddleware(node string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		RecordHTTPRequest(node, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
