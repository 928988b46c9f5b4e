package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnxcius/sign-backend/internal/auth"
)

// SloggerMiddleware logs one line per request. Bodies are never logged:
// GraphQL variables carry passwords and signature images.
func SloggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.Int("status", status),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
		}

		if op := c.GetString(OperationKey); op != "" {
			attrs = append(attrs, slog.String("operation", op))
		}
		if id, ok := auth.IdentityFromContext(c.Request.Context()); ok {
			attrs = append(attrs, slog.String("subject_id", id.SubjectID.String()))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			attrs = append(attrs, slog.String("errors", errs))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		slog.LogAttrs(c, level, "REQUEST RECEIVED", attrs...)
	}
}
