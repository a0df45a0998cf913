package middleware

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

var gzipToken = regexp.MustCompile(`(?i)\bgzip\b`)

// Gzip 客户端接受 gzip 时压缩已缓冲的响应体
func Gzip() gin.HandlerFunc {
	return func(c *gin.Context) {
		accepted := acceptsGzip(c.Request.Header.Values("Accept-Encoding"))

		afterHandler(c, func(buf *ResponseBuffer) {
			if !accepted {
				return
			}
			body := buf.Body()
			if len(body) == 0 || buf.Header().Get("Content-Encoding") != "" {
				return
			}

			compressed, err := compress(body)
			if err != nil {
				log.Warn().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("gzip compress failed, sending identity")
				return
			}

			h := buf.Header()
			h.Set("Content-Encoding", "gzip")
			h.Add("Vary", "Accept-Encoding")
			h.Del("Content-Length")
			buf.SetBody(compressed)
		})
	}
}

// acceptsGzip Accept-Encoding 的多个值合并后整词匹配 gzip
func acceptsGzip(values []string) bool {
	return gzipToken.MatchString(strings.Join(values, ", "))
}

func compress(body []byte) ([]byte, error) {
	var out bytes.Buffer
	zw := gzip.NewWriter(&out)
	if _, err := zw.Write(body); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
