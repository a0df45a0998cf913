package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "mzapi/internal/pkg/http"
)

// PostOnly 只允许 POST，根路径额外允许 GET
func PostOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		path := c.Request.URL.Path

		if method == http.MethodPost || (method == http.MethodGet && (path == "/" || path == "")) {
			c.Next()
			return
		}
		httputil.Abort(c, httputil.NewMethodNotAllowed())
	}
}
