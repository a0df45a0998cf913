package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"mzapi/internal/pkg/metrics"
)

// Metrics 按路由与状态码记录请求数和耗时
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start).Seconds())
	}
}
