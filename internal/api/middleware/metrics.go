package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

type RequestRecorder interface {
	RecordRequest(route string, statusCode int, latency time.Duration)
}

func Metrics(rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordRequest(route, c.Writer.Status(), time.Since(start))
	}
}
