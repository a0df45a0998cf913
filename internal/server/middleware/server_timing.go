package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ServerTiming 记录处理耗时（毫秒，保留三位小数）
func ServerTiming() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		afterHandler(c, func(buf *ResponseBuffer) {
			ms := float64(time.Since(start).Nanoseconds()) / 1e6
			buf.Header().Set("Server-Timing", "total;dur="+strconv.FormatFloat(ms, 'f', 3, 64))
		})
	}
}
