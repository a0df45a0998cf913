package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"mzapi/internal/pkg/ctxutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine 安装 Capture 后依次挂载被测中间件
func newEngine(units ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(Capture())
	engine.Use(units...)
	return engine
}

func perform(engine *gin.Engine, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	Convey("CORS", t, func() {
		engine := newEngine(CORS())
		engine.POST("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		engine.OPTIONS("/x", func(c *gin.Context) { c.String(http.StatusOK, "should not run") })

		Convey("普通请求带三个跨域头", func() {
			w := perform(engine, http.MethodPost, "/x", nil, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			So(w.Header().Get("Access-Control-Allow-Methods"), ShouldEqual, "GET, POST")
			So(w.Header().Get("Access-Control-Max-Age"), ShouldEqual, "3600")
		})

		Convey("OPTIONS 预检返回 204 空响应", func() {
			w := perform(engine, http.MethodOptions, "/x", nil, nil)
			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(w.Body.Len(), ShouldEqual, 0)
		})
	})
}

func TestSecurityAndCacheHeaders(t *testing.T) {
	Convey("安全与缓存响应头", t, func() {
		engine := newEngine(SecurityHeaders(), NoCache(), ContentLanguage("zh-CN"), ProxyHeader("MZAPI/EdgeOne-Proxy"))
		engine.POST("/x", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

		w := perform(engine, http.MethodPost, "/x", nil, nil)
		h := w.Header()
		So(h.Get("X-Frame-Options"), ShouldEqual, "DENY")
		So(h.Get("X-Content-Type-Options"), ShouldEqual, "nosniff")
		So(h.Get("X-XSS-Protection"), ShouldEqual, "1; mode=block")
		So(h.Get("Referrer-Policy"), ShouldEqual, "strict-origin-when-cross-origin")
		So(h.Get("Content-Security-Policy"), ShouldContainSubstring, "frame-ancestors 'none';")
		So(h.Get("Permissions-Policy"), ShouldEqual, "geolocation=(), microphone=(), camera=()")
		So(h.Get("Strict-Transport-Security"), ShouldEqual, "max-age=31536000; includeSubDomains; preload")
		So(h.Get("Cache-Control"), ShouldEqual, "no-store, no-cache, must-revalidate")
		So(h.Get("Pragma"), ShouldEqual, "no-cache")
		So(h.Get("Expires"), ShouldEqual, "0")
		So(h.Get("Content-Language"), ShouldEqual, "zh-CN")
		So(h.Get("Service"), ShouldEqual, "MZAPI/EdgeOne-Proxy")
	})
}

func TestPostOnly(t *testing.T) {
	Convey("请求方法限制", t, func() {
		engine := newEngine(PostOnly())
		engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "root") })
		engine.GET("/aliyun/text-generation", func(c *gin.Context) { c.String(http.StatusOK, "should not run") })
		engine.POST("/aliyun/text-generation", func(c *gin.Context) { c.String(http.StatusOK, "handled") })

		Convey("GET / 允许", func() {
			So(perform(engine, http.MethodGet, "/", nil, nil).Code, ShouldEqual, http.StatusOK)
		})

		Convey("GET 非根路径返回 405", func() {
			w := perform(engine, http.MethodGet, "/aliyun/text-generation", nil, nil)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Body.String(), ShouldContainSubstring, "Method Not Allowed")
		})

		Convey("POST 进入处理器", func() {
			w := perform(engine, http.MethodPost, "/aliyun/text-generation", nil, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "handled")
		})
	})
}

func TestContentDigest(t *testing.T) {
	Convey("Content-Digest", t, func() {
		engine := newEngine(ContentDigest())
		engine.POST("/echo", func(c *gin.Context) {
			body, _ := io.ReadAll(c.Request.Body)
			c.Data(http.StatusOK, "text/plain", body)
		})
		engine.POST("/empty", func(c *gin.Context) { c.Status(http.StatusOK) })

		a1 := perform(engine, http.MethodPost, "/echo", strings.NewReader("hello"), nil)
		a2 := perform(engine, http.MethodPost, "/echo", strings.NewReader("hello"), nil)
		b := perform(engine, http.MethodPost, "/echo", strings.NewReader("world"), nil)

		Convey("相同响应体摘要一致", func() {
			So(a1.Header().Get("Content-Digest"), ShouldStartWith, "sha-512=")
			So(a1.Header().Get("Content-Digest"), ShouldEqual, a2.Header().Get("Content-Digest"))
			So(a1.Header().Get("Content-Digest"), ShouldEqual, "sha-512="+digest([]byte("hello")))
		})

		Convey("不同响应体摘要不同", func() {
			So(a1.Header().Get("Content-Digest"), ShouldNotEqual, b.Header().Get("Content-Digest"))
		})

		Convey("空响应体不设置摘要", func() {
			w := perform(engine, http.MethodPost, "/empty", nil, nil)
			So(w.Header().Get("Content-Digest"), ShouldBeEmpty)
		})
	})
}

func TestServerTiming(t *testing.T) {
	Convey("Server-Timing 保留三位小数", t, func() {
		engine := newEngine(ServerTiming())
		engine.POST("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		v := perform(engine, http.MethodPost, "/x", nil, nil).Header().Get("Server-Timing")
		So(v, ShouldStartWith, "total;dur=")
		dur := strings.TrimPrefix(v, "total;dur=")
		So(dur, ShouldContainSubstring, ".")
		So(len(dur[strings.Index(dur, ".")+1:]), ShouldEqual, 3)
	})
}

func TestGzip(t *testing.T) {
	Convey("Gzip", t, func() {
		payload := strings.Repeat("mzapi gateway ", 200)
		engine := newEngine(Gzip())
		engine.POST("/x", func(c *gin.Context) { c.String(http.StatusOK, payload) })

		Convey("整词匹配 gzip 时压缩", func() {
			for _, ae := range []string{"gzip", "deflate, GZIP", "br;q=1.0, gzip;q=0.8"} {
				w := perform(engine, http.MethodPost, "/x", nil, map[string]string{"Accept-Encoding": ae})
				So(w.Header().Get("Content-Encoding"), ShouldEqual, "gzip")
				So(w.Body.Len(), ShouldBeLessThan, len(payload))

				zr, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
				So(err, ShouldBeNil)
				plain, err := io.ReadAll(zr)
				So(err, ShouldBeNil)
				So(string(plain), ShouldEqual, payload)
			}
		})

		Convey("不接受 gzip 时跳过", func() {
			for _, ae := range []string{"", "deflate", "xgzip", "gzipx"} {
				w := perform(engine, http.MethodPost, "/x", nil, map[string]string{"Accept-Encoding": ae})
				So(w.Header().Get("Content-Encoding"), ShouldBeEmpty)
				So(w.Body.String(), ShouldEqual, payload)
			}
		})

		Convey("多个 Accept-Encoding 头合并匹配", func() {
			So(acceptsGzip([]string{"deflate", "gzip"}), ShouldBeTrue)
			So(acceptsGzip([]string{"deflate", "br"}), ShouldBeFalse)
		})
	})
}

func TestRequestID(t *testing.T) {
	Convey("请求 ID", t, func() {
		var seen string
		engine := newEngine(RequestID())
		engine.POST("/plain", func(c *gin.Context) {
			seen, _ = ctxutil.GetRequestID(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		engine.POST("/vendor", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"RequestId": "vendor-123", "Code": 200})
		})

		Convey("缺少请求头时生成新 ID", func() {
			w := perform(engine, http.MethodPost, "/plain", nil, nil)
			So(w.Header().Get("X-Request-Id"), ShouldNotBeEmpty)
			So(seen, ShouldEqual, w.Header().Get("X-Request-Id"))
		})

		Convey("存在请求头时原样回显", func() {
			w := perform(engine, http.MethodPost, "/plain", nil, map[string]string{"x-request-id": "abc-1"})
			So(w.Header().Get("X-Request-Id"), ShouldEqual, "abc-1")
			So(seen, ShouldEqual, "abc-1")
		})

		Convey("响应体中的 RequestId 优先", func() {
			w := perform(engine, http.MethodPost, "/vendor", nil, map[string]string{"x-request-id": "abc-1"})
			So(w.Header().Get("X-Request-Id"), ShouldEqual, "vendor-123")
		})
	})
}

func TestBodySizeLimit(t *testing.T) {
	Convey("请求体大小限制", t, func() {
		called := false
		engine := newEngine(BodySizeLimit(1024))
		engine.POST("/x", func(c *gin.Context) {
			called = true
			_, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.String(http.StatusRequestEntityTooLarge, err.Error())
				return
			}
			c.String(http.StatusOK, "ok")
		})

		Convey("未超限时通过并标注上限", func() {
			w := perform(engine, http.MethodPost, "/x", strings.NewReader(strings.Repeat("a", 1024)), nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(called, ShouldBeTrue)
			So(w.Header().Get("X-Max-Body-Size"), ShouldEqual, "1 KB")
		})

		Convey("超限时在处理器之前返回 413", func() {
			w := perform(engine, http.MethodPost, "/x", strings.NewReader(strings.Repeat("a", 2048)), nil)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(called, ShouldBeFalse)
			So(w.Body.String(), ShouldContainSubstring, "Payload Too Large: Request body size (2 KB) exceeds limit (1 KB)")
			So(w.Header().Get("X-Max-Body-Size"), ShouldBeEmpty)
		})

		Convey("未声明长度的请求体按实际读取限制", func() {
			req := httptest.NewRequest(http.MethodPost, "/x", io.NopCloser(strings.NewReader(strings.Repeat("a", 2048))))
			req.ContentLength = -1
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			So(called, ShouldBeTrue)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
		})
	})
}

func TestTimeout(t *testing.T) {
	Convey("请求超时", t, func() {
		engine := newEngine(Timeout(50 * time.Millisecond))
		engine.POST("/slow", func(c *gin.Context) {
			select {
			case <-c.Request.Context().Done():
				c.String(http.StatusInternalServerError, "cancelled")
			case <-time.After(2 * time.Second):
				c.String(http.StatusOK, "late")
			}
		})
		engine.POST("/fast", func(c *gin.Context) { c.String(http.StatusOK, "fast") })
		engine.POST("/fail", func(c *gin.Context) { c.String(http.StatusBadRequest, "bad") })
		engine.POST("/stream", func(c *gin.Context) {
			c.Header("Content-Type", "text/event-stream")
			_, _ = c.Writer.WriteString("data: a\n\n")
			c.Writer.Flush()
			time.Sleep(100 * time.Millisecond)
			_, _ = c.Writer.WriteString("data: [DONE]\n\n")
			c.Writer.Flush()
		})

		Convey("超时返回 504 并取消上下文", func() {
			start := time.Now()
			w := perform(engine, http.MethodPost, "/slow", nil, nil)
			So(time.Since(start), ShouldBeLessThan, time.Second)
			So(w.Code, ShouldEqual, http.StatusGatewayTimeout)
			So(w.Body.String(), ShouldContainSubstring, "Gateway Timeout: Request processing exceeded 50ms")
			So(w.Body.String(), ShouldNotContainSubstring, "cancelled")
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
		})

		Convey("及时完成不受影响", func() {
			w := perform(engine, http.MethodPost, "/fast", nil, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("其他错误原样透传", func() {
			w := perform(engine, http.MethodPost, "/fail", nil, nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldEqual, "bad")
		})

		Convey("已开始输出的流不被中断", func() {
			w := perform(engine, http.MethodPost, "/stream", nil, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "data: a\n\ndata: [DONE]\n\n")
		})
	})
}

func TestTimeoutRestoresHeaders(t *testing.T) {
	Convey("超时响应丢弃处理器设置的流式响应头", t, func() {
		engine := newEngine(NoCache(), Timeout(50*time.Millisecond))
		engine.POST("/sse", func(c *gin.Context) {
			c.Header("Content-Type", "text/event-stream")
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
			c.Header("X-Accel-Buffering", "no")
			<-c.Request.Context().Done()
			_, _ = c.Writer.WriteString("data: late\n\n")
		})

		w := perform(engine, http.MethodPost, "/sse", nil, nil)
		So(w.Code, ShouldEqual, http.StatusGatewayTimeout)
		So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
		So(w.Header().Get("Cache-Control"), ShouldEqual, "no-store, no-cache, must-revalidate")
		So(w.Header().Get("Pragma"), ShouldEqual, "no-cache")
		So(w.Header().Get("X-Accel-Buffering"), ShouldBeEmpty)
		So(w.Header().Get("Connection"), ShouldBeEmpty)
		So(w.Body.String(), ShouldNotContainSubstring, "late")
	})
}

func TestRecovery(t *testing.T) {
	Convey("panic 恢复为 500", t, func() {
		engine := newEngine(Recovery())
		engine.POST("/panic", func(c *gin.Context) {
			c.String(http.StatusOK, "partial")
			panic("boom")
		})

		w := perform(engine, http.MethodPost, "/panic", nil, nil)
		So(w.Code, ShouldEqual, http.StatusInternalServerError)
		So(w.Body.String(), ShouldContainSubstring, "50000")
		So(w.Body.String(), ShouldNotContainSubstring, "partial")
	})
}

func TestResponseBuffer(t *testing.T) {
	Convey("响应缓冲", t, func() {
		Convey("提交后拒绝超时标记", func() {
			engine := gin.New()
			engine.Use(Capture())
			var expired bool
			engine.POST("/x", func(c *gin.Context) {
				buf := c.Writer.(*ResponseBuffer)
				_, _ = buf.WriteString("a")
				buf.Flush()
				expired = buf.Expire()
			})
			perform(engine, http.MethodPost, "/x", nil, nil)
			So(expired, ShouldBeFalse)
		})

		Convey("超时后拒绝提前提交", func() {
			engine := gin.New()
			engine.Use(Capture())
			var committed bool
			engine.POST("/x", func(c *gin.Context) {
				buf := c.Writer.(*ResponseBuffer)
				So(buf.Expire(), ShouldBeTrue)
				_, _ = buf.WriteString("a")
				buf.Flush()
				committed = buf.Committed()
			})
			w := perform(engine, http.MethodPost, "/x", nil, nil)
			So(committed, ShouldBeFalse)
			So(w.Body.String(), ShouldEqual, "a")
		})

		Convey("未匹配路由保留 404", func() {
			engine := gin.New()
			engine.Use(Capture())
			w := perform(engine, http.MethodPost, "/missing", nil, nil)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestLoggerTruncate(t *testing.T) {
	Convey("User-Agent 截断", t, func() {
		So(truncateUserAgent(""), ShouldEqual, "-")
		So(truncateUserAgent("curl/8.0"), ShouldEqual, "curl/8.0")
		long := strings.Repeat("u", 80)
		So(truncateUserAgent(long), ShouldEqual, strings.Repeat("u", 50)+"...")
	})

	Convey("日志中间件不影响响应", t, func() {
		engine := newEngine(RequestID(), Logger(), Metrics())
		engine.POST("/x", func(c *gin.Context) { c.String(http.StatusTeapot, "tea") })
		w := perform(engine, http.MethodPost, "/x", nil, map[string]string{"User-Agent": strings.Repeat("u", 80)})
		So(w.Code, ShouldEqual, http.StatusTeapot)
	})
}

func TestTimeoutPropagatesContext(t *testing.T) {
	Convey("处理器看到可取消的上下文", t, func() {
		engine := newEngine(Timeout(time.Second))
		var cancellable bool
		engine.POST("/x", func(c *gin.Context) {
			cancellable = c.Request.Context().Done() != nil && c.Request.Context().Err() == nil
			c.Status(http.StatusOK)
		})
		perform(engine, http.MethodPost, "/x", nil, nil)
		So(cancellable, ShouldBeTrue)
	})
}
