package middleware

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// ResponseBuffer 缓冲响应状态码与响应体，直到中间件链返回后才提交给底层连接。
// Flush 会提前提交（流式响应），提交后不允许再修改响应头。
type ResponseBuffer struct {
	gin.ResponseWriter

	mu        sync.Mutex
	status    int
	body      bytes.Buffer
	wrote     bool
	committed bool
	expired   bool
}

func newResponseBuffer(w gin.ResponseWriter) *ResponseBuffer {
	// NoRoute 时 gin 已把底层状态预置为 404
	return &ResponseBuffer{ResponseWriter: w, status: w.Status()}
}

func (b *ResponseBuffer) WriteHeader(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if code > 0 && !b.committed {
		b.status = code
	}
}

func (b *ResponseBuffer) WriteHeaderNow() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.committed {
		b.ResponseWriter.WriteHeaderNow()
		return
	}
	b.wrote = true
}

func (b *ResponseBuffer) Write(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.committed {
		return b.ResponseWriter.Write(data)
	}
	b.wrote = true
	return b.body.Write(data)
}

func (b *ResponseBuffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// Flush 提交已缓冲的内容并刷新连接；超时已触发时不提交
func (b *ResponseBuffer) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.expired {
		return
	}
	b.commitLocked()
	b.ResponseWriter.Flush()
}

func (b *ResponseBuffer) Status() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.committed {
		return b.ResponseWriter.Status()
	}
	return b.status
}

func (b *ResponseBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.committed {
		return b.ResponseWriter.Size()
	}
	if !b.wrote {
		return -1
	}
	return b.body.Len()
}

func (b *ResponseBuffer) Written() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.committed || b.wrote
}

// Committed 响应头是否已发送
func (b *ResponseBuffer) Committed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.committed
}

// Expire 标记请求已超时；响应已提交时返回 false
func (b *ResponseBuffer) Expire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.committed {
		return false
	}
	b.expired = true
	return true
}

// Body 已缓冲的响应体
func (b *ResponseBuffer) Body() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.body.Bytes()
}

// SetBody 替换已缓冲的响应体
func (b *ResponseBuffer) SetBody(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.committed {
		return
	}
	b.body.Reset()
	b.body.Write(data)
}

// Reset 丢弃已缓冲的响应，用于以错误响应替换
func (b *ResponseBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.committed {
		return
	}
	b.body.Reset()
	b.wrote = false
	h := b.ResponseWriter.Header()
	h.Del("Content-Type")
	h.Del("Content-Length")
}

// RestoreHeader 未提交时把响应头恢复为 saved 快照
func (b *ResponseBuffer) RestoreHeader(saved http.Header) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.committed {
		return
	}
	h := b.ResponseWriter.Header()
	for k := range h {
		delete(h, k)
	}
	for k, v := range saved {
		h[k] = v
	}
}

// commit 将缓冲内容写入底层连接
func (b *ResponseBuffer) commit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commitLocked()
}

func (b *ResponseBuffer) commitLocked() {
	if b.committed {
		return
	}
	b.committed = true
	b.ResponseWriter.WriteHeader(b.status)
	if b.body.Len() > 0 {
		_, _ = b.ResponseWriter.Write(b.body.Bytes())
		b.body.Reset()
		return
	}
	b.ResponseWriter.WriteHeaderNow()
}

// Capture 最外层中间件，安装 ResponseBuffer 并在链返回后提交响应
func Capture() gin.HandlerFunc {
	return func(c *gin.Context) {
		buf := newResponseBuffer(c.Writer)
		c.Writer = buf
		defer buf.commit()
		c.Next()
	}
}

// afterHandler 执行后续处理器，响应尚未提交时再调用 fn
func afterHandler(c *gin.Context, fn func(buf *ResponseBuffer)) {
	c.Next()
	buf, ok := c.Writer.(*ResponseBuffer)
	if !ok || buf.Committed() {
		return
	}
	fn(buf)
}
