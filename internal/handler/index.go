package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mzapi/internal/model"
)

// manifest 服务清单，新增接口时在此登记
var manifest = model.Manifest{
	Name:        "MZAPI",
	Version:     "0.0.1",
	Description: "米粥宝贝 API 服务",
	APIs: []model.APIInfo{
		{
			Name:          "图片内容审核",
			Endpoint:      "/aliyun/image-moderation",
			Method:        http.MethodPost,
			Description:   "基于阿里云内容安全服务的图片审核功能，可以自动检测图片中的色情、暴恐、广告、政治敏感等违规内容",
			Documentation: "/docs/IMAGE-MODERATION.md",
			LaunchDate:    "2025-01-11",
		},
		{
			Name:        "文本生成",
			Endpoint:    "/aliyun/text-generation",
			Method:      http.MethodPost,
			Description: "基于阿里云百炼的文本生成功能，支持多种通义千问模型",
			LaunchDate:  "2025-01-11",
		},
	},
}

// IndexHandler 根路径处理器
type IndexHandler struct{}

// NewIndexHandler 创建根路径处理器
func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// Index 服务清单
// @Summary      服务清单
// @Description  列出当前提供的接口及其说明
// @Tags         系统
// @Produce      json
// @Success      200  {object}  model.Manifest
// @Router       / [get]
func (h *IndexHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, manifest)
}
