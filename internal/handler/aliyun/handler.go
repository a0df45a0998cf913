package aliyun

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "mzapi/internal/pkg/http"
	aliyunsvc "mzapi/internal/service/aliyun"
)

// Handler 阿里云接口处理器
// 所有 /aliyun 路由都通过这个结构体访问 Service
type Handler struct {
	moderation *aliyunsvc.ImageModerationService
	generation *aliyunsvc.TextGenerationService
}

// NewHandler 创建阿里云接口处理器
func NewHandler(moderation *aliyunsvc.ImageModerationService, generation *aliyunsvc.TextGenerationService) *Handler {
	return &Handler{
		moderation: moderation,
		generation: generation,
	}
}

// bindJSON 绑定并校验请求体，超限的请求体返回 413，其余错误一次性列出全部违规字段
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		size := c.Request.ContentLength
		if size <= maxErr.Limit {
			size = maxErr.Limit + 1
		}
		return httputil.NewPayloadTooLarge(size, maxErr.Limit)
	}
	return httputil.NewBadRequest(aliyunsvc.BindingMessage(err))
}
