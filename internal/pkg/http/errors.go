package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	CodeBadRequest       = 40001
	CodeNotFound         = 40401
	CodeMethodNotAllowed = 40501
	CodePayloadTooLarge  = 41301
	CodeInternal         = 50000
	CodeUpstream         = 50001
	CodeGatewayTimeout   = 50401
)

// APIError 带 HTTP 状态码的错误
type APIError struct {
	Status  int
	Code    int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Response 转换为统一错误响应体
func (e *APIError) Response() *ErrorResponse {
	return NewErrorResponse(e.Code, e.Message)
}

// NewBadRequest 参数错误
func NewBadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: message}
}

// NewNotFound 路由不存在
func NewNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// NewMethodNotAllowed 请求方法不被允许
func NewMethodNotAllowed() *APIError {
	return &APIError{Status: http.StatusMethodNotAllowed, Code: CodeMethodNotAllowed, Message: "Method Not Allowed"}
}

// NewPayloadTooLarge 请求体超过上限
func NewPayloadTooLarge(size, limit int64) *APIError {
	return &APIError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    CodePayloadTooLarge,
		Message: fmt.Sprintf("Payload Too Large: Request body size (%s) exceeds limit (%s)", FormatBytes(size), FormatBytes(limit)),
	}
}

// NewUpstreamError 上游调用失败，prefix 标识具体的上游集成
func NewUpstreamError(prefix string, err error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    CodeUpstream,
		Message: prefix + err.Error(),
		Err:     err,
	}
}

// NewGatewayTimeout 请求处理超时
func NewGatewayTimeout(timeoutMs int) *APIError {
	return &APIError{
		Status:  http.StatusGatewayTimeout,
		Code:    CodeGatewayTimeout,
		Message: fmt.Sprintf("Gateway Timeout: Request processing exceeded %dms", timeoutMs),
	}
}

// NewInternal 未分类的服务端错误
func NewInternal(err error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "Internal Server Error",
		Err:     err,
	}
}

// AsAPIError 将任意错误归类为 APIError
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternal(err)
}

// Abort 记录错误并以统一错误响应终止请求
func Abort(c *gin.Context, err error) {
	apiErr := AsAPIError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, apiErr.Response())
}
