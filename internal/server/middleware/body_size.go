package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "mzapi/internal/pkg/http"
)

// BodySizeLimit 按 Content-Length 拒绝超限请求，并限制实际读取的字节数
func BodySizeLimit(limit int64) gin.HandlerFunc {
	formatted := httputil.FormatBytes(limit)

	return func(c *gin.Context) {
		size := c.Request.ContentLength
		if size < 0 {
			size = 0
		}
		if size > limit {
			httputil.Abort(c, httputil.NewPayloadTooLarge(size, limit))
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		afterHandler(c, func(buf *ResponseBuffer) {
			if buf.Status() < http.StatusBadRequest {
				buf.Header().Set("X-Max-Body-Size", formatted)
			}
		})
	}
}
