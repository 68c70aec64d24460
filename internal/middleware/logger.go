package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rrzkmlnaa/whatsapp-api-1/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Logger emits one structured log line per request and feeds the request
// counter.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		requestID := "unknown"
		if reqID, exists := c.Get("request_id"); exists {
			if reqIDStr, ok := reqID.(string); ok {
				requestID = reqIDStr
			}
		}

		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()

		if raw != "" {
			path = path + "?" + raw
		}

		logEvent := log.Info()
		if status >= 400 {
			logEvent = log.Error()
		}

		logEvent.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Int("body_size", c.Writer.Size()).
			Msg("HTTP request")
	}
}
