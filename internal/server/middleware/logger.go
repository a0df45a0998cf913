package middleware

import (
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxUserAgentLen = 50

// Logger 日志中间件，请求进入与完成各记录一行
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		requestID := c.GetString(RequestIDKey)

		log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("user_agent", truncateUserAgent(c.Request.UserAgent())).
			Msg("HTTP request started")

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 400 {
			event = log.Warn()
		}
		if status >= 500 {
			event = log.Error()
		}
		if err := c.Errors.Last(); err != nil {
			event = event.Err(err.Err)
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Int("body_size", c.Writer.Size()).
			Msg("HTTP request")
	}
}

func truncateUserAgent(ua string) string {
	if ua == "" {
		return "-"
	}
	if utf8.RuneCountInString(ua) <= maxUserAgentLen {
		return ua
	}
	return string([]rune(ua)[:maxUserAgentLen]) + "..."
}
