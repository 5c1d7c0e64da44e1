package router

import (
	"net/http"
	"time"

	"minimarket/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags the request with X-Request-ID (kept when the caller sent
// one) and stores a logger carrying it in the context.
func RequestID(base logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		logger.Set(c, logger.With(base, "request_id", id))
		c.Next()
	}
}

// Logger logs method, path, status and latency.
func Logger(base logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		l := logger.From(c, base)
		if status >= http.StatusInternalServerError {
			l.Errorw("request", fields...)
			return
		}
		l.Infow("request", fields...)
	}
}
