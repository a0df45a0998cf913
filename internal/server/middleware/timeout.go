package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httputil "mzapi/internal/pkg/http"
)

// Timeout 超时后取消请求上下文并以 504 替换响应；已开始流式输出的响应不受影响
func Timeout(d time.Duration) gin.HandlerFunc {
	timeoutMs := int(d / time.Millisecond)

	return func(c *gin.Context) {
		buf, ok := c.Writer.(*ResponseBuffer)
		if !ok {
			c.Next()
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// 超时替换响应时丢弃处理器设置的头
		header := buf.Header().Clone()

		timedOut := false
		fired := make(chan struct{})
		timer := time.AfterFunc(d, func() {
			defer close(fired)
			if buf.Expire() {
				timedOut = true
				cancel()
			}
		})

		c.Next()

		if timer.Stop() {
			return
		}
		<-fired
		if !timedOut {
			return
		}

		log.Warn().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.Request.URL.Path).
			Int("timeout_ms", timeoutMs).
			Msg("request timed out")

		buf.Reset()
		buf.RestoreHeader(header)
		httputil.Abort(c, httputil.NewGatewayTimeout(timeoutMs))
	}
}
