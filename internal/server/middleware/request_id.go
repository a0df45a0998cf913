package middleware

import (
	"github.com/buger/jsonparser"
	"github.com/gin-gonic/gin"

	"mzapi/internal/pkg/ctxutil"
	"mzapi/internal/pkg/id"
)

const (
	// RequestIDKey gin 上下文中的请求 ID 键
	RequestIDKey = "request_id"

	requestIDHeader  = "X-Request-Id"
	vendorRequestKey = "RequestId"
)

// RequestID 读取或生成请求 ID；上游响应体中的 RequestId 字段优先
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		setRequestID(c, id.OrNew(c.GetHeader(requestIDHeader)))

		afterHandler(c, func(buf *ResponseBuffer) {
			vendorID, err := jsonparser.GetString(buf.Body(), vendorRequestKey)
			if err != nil || vendorID == "" {
				return
			}
			setRequestID(c, vendorID)
		})
	}
}

func setRequestID(c *gin.Context, requestID string) {
	c.Set(RequestIDKey, requestID)
	c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), requestID))
	c.Header(requestIDHeader, requestID)
}
