// Package middleware holds the gin middleware of the gateway API.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader is read from requests and echoed on responses.
const RequestIDHeader = "X-Request-ID"

const (
	ctxRequestID = "request_id"
	ctxLogger    = "logger"
)

// LoggingMiddleware tags each request with an id and writes one access
// line when it completes.
type LoggingMiddleware struct {
	base  zerolog.Logger
	quiet map[string]struct{}
}

// NewLoggingMiddleware logs through the global zerolog logger.
func NewLoggingMiddleware() *LoggingMiddleware {
	return NewLoggingMiddlewareWithLogger(log.Logger)
}

// NewLoggingMiddlewareWithLogger logs through logger.
func NewLoggingMiddlewareWithLogger(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{base: logger, quiet: map[string]struct{}{}}
}

// Quiet demotes successful requests on the given paths to debug level.
// Used for probe endpoints polled by orchestrators.
func (m *LoggingMiddleware) Quiet(paths ...string) *LoggingMiddleware {
	for _, p := range paths {
		m.quiet[p] = struct{}{}
	}
	return m
}

// RequestLogger adopts or mints the request id, echoes it, and stores a
// logger bound to it in both the gin and the request context.
func (m *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		scoped := m.base.With().Str(ctxRequestID, id).Logger()
		c.Set(ctxRequestID, id)
		c.Set(ctxLogger, scoped)
		c.Request = c.Request.WithContext(scoped.WithContext(c.Request.Context()))

		c.Next()
	}
}

// Logger writes the access line after the handler chain has run.
func (m *LoggingMiddleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		lg := m.requestLogger(c)
		lg.WithLevel(m.level(path, status)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Str("query", rawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Int("body_size", c.Writer.Size()).
			Msg("request completed")
	}
}

func (m *LoggingMiddleware) level(path string, status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	}
	if _, ok := m.quiet[path]; ok {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func (m *LoggingMiddleware) requestLogger(c *gin.Context) zerolog.Logger {
	if v, ok := c.Get(ctxLogger); ok {
		if lg, ok := v.(zerolog.Logger); ok {
			return lg
		}
	}
	return m.base
}

// GetRequestLogger returns the logger bound to the request, or the global one.
func GetRequestLogger(c *gin.Context) zerolog.Logger {
	if v, ok := c.Get(ctxLogger); ok {
		if lg, ok := v.(zerolog.Logger); ok {
			return lg
		}
	}
	return log.Logger
}

// GetRequestID returns the id assigned by RequestLogger, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}
