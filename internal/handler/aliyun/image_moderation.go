package aliyun

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mzapi/internal/model"
	httputil "mzapi/internal/pkg/http"
)

// ImageModeration 图片内容审核
// @Summary      图片内容审核
// @Description  调用阿里云内容安全 ImageModeration 接口，原样返回审核结果
// @Tags         阿里云
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImageModerationRequest  true  "审核请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  httputil.ErrorResponse
// @Failure      413      {object}  httputil.ErrorResponse
// @Failure      500      {object}  httputil.ErrorResponse
// @Failure      504      {object}  httputil.ErrorResponse
// @Router       /aliyun/image-moderation [post]
func (h *Handler) ImageModeration(c *gin.Context) {
	var req model.ImageModerationRequest
	if err := bindJSON(c, &req); err != nil {
		httputil.Abort(c, err)
		return
	}

	raw, err := h.moderation.Moderate(c.Request.Context(), &req)
	if err != nil {
		httputil.Abort(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
