package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in and out of the service.
const RequestIDHeader = "X-Request-ID"

const loggerCtxKey = "logger"

// RequestLogger tags each request with an id (taken from X-Request-ID or
// generated), stores a request-scoped logger on the gin context and logs the
// outcome once the handler chain finishes.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		logger := base.With(
			zap.String("request_id", requestID),
			zap.String("http_method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Set(loggerCtxKey, logger)

		c.Next()

		logger.Info("request completed",
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// FromContext returns the request-scoped logger, falling back to the provided default.
func FromContext(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := c.Get(loggerCtxKey); ok {
		if logger, ok := v.(*zap.Logger); ok {
			return logger
		}
	}
	return fallback
}
