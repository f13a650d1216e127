package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler = gin.HandlerFunc
type Router = gin.IRouter

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	problemType     = "application/problem+json"
)

// Problem is an RFC 7807 error body. Instance carries the request id.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// AbortWithProblem ends the request with a problem+json body.
func AbortWithProblem(c *gin.Context, status int, detail string) {
	c.Header("Content-Type", problemType)
	c.AbortWithStatusJSON(status, Problem{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.GetString(requestIDKey),
	})
}

// RequestID reuses the caller's X-Request-ID or mints one.
func RequestID() Handler {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

// AccessLog logs each request at debug once the handler chain returns.
// Server errors are raised to warn.
func AccessLog(l *slog.Logger) Handler {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		l.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// RecoveryProblem answers a panicking handler with a 500 problem.
func RecoveryProblem(l *slog.Logger) Handler {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("handler panic", "panic", rec, "request_id", c.GetString(requestIDKey))
				AbortWithProblem(c, http.StatusInternalServerError, "unexpected server error")
			}
		}()
		c.Next()
	}
}

// noRoute answers unknown paths with a 404 problem.
func noRoute(c *gin.Context) {
	AbortWithProblem(c, http.StatusNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
}
