package middleware

import (
	"crypto/sha512"
	"encoding/base64"

	"github.com/gin-gonic/gin"
)

// ContentDigest 对未压缩的响应体计算 SHA-512 摘要
func ContentDigest() gin.HandlerFunc {
	return func(c *gin.Context) {
		afterHandler(c, func(buf *ResponseBuffer) {
			body := buf.Body()
			if len(body) == 0 {
				return
			}
			buf.Header().Set("Content-Digest", "sha-512="+digest(body))
		})
	}
}

func digest(body []byte) string {
	sum := sha512.Sum512(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}
