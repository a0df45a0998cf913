package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const contentSecurityPolicy = "default-src 'self' *.mizhoubaobei.top; " +
	"script-src 'self' *.mizhoubaobei.top 'unsafe-inline' 'unsafe-eval'; " +
	"style-src 'self' *.mizhoubaobei.top 'unsafe-inline'; " +
	"img-src 'self' *.mizhoubaobei.top data: https:; " +
	"font-src 'self' *.mizhoubaobei.top data:; " +
	"connect-src 'self' *.mizhoubaobei.top https:; " +
	"frame-ancestors 'none';"

// CORS 跨域响应头，OPTIONS 预检直接返回 204
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST")
		c.Header("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SecurityHeaders 安全相关响应头
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		c.Next()
	}
}

// ProxyHeader 标识代理服务的 Service 响应头
func ProxyHeader(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		afterHandler(c, func(buf *ResponseBuffer) {
			buf.Header().Set("Service", service)
		})
	}
}

// NoCache 禁止缓存
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		c.Next()
	}
}

// ContentLanguage 响应内容语言
func ContentLanguage(lang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Language", lang)
		c.Next()
	}
}
