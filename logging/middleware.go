package logging

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware 记录每个请求的方法、路径、状态码和耗时
// 4xx 记 warn，5xx 记 error
func GinMiddleware(l *Logger) gin.HandlerFunc {
	httpLogger := l.WithComponent(ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		args := []any{
			FieldMethod, c.Request.Method,
			FieldPath, c.Request.URL.Path,
			FieldStatusCode, status,
			FieldDuration, time.Since(start).Milliseconds(),
			FieldClientIP, c.ClientIP(),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			args = append(args, FieldQuery, q)
		}
		if uid, ok := c.Get("userID"); ok {
			args = append(args, FieldUserID, uid)
		}
		if len(c.Errors) > 0 {
			args = append(args, FieldError, c.Errors.String())
		}
		httpLogger.Log(c.Request.Context(), level, "HTTP request", args...)
	}
}
