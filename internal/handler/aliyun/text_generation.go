package aliyun

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mzapi/internal/model"
	"mzapi/internal/pkg/ctxutil"
	"mzapi/internal/pkg/dashscope"
	httputil "mzapi/internal/pkg/http"
	"mzapi/internal/pkg/metrics"
)

const sseDone = "data: [DONE]\n\n"

// TextGeneration 文本生成
// @Summary      文本生成
// @Description  调用阿里云百炼兼容模式接口；stream 为 true 时以 SSE 返回 data: {"content": "..."} 帧，最后一帧为 data: [DONE]
// @Tags         阿里云
// @Accept       json
// @Produce      json
// @Produce      text/event-stream
// @Param        request  body      model.TextGenerationRequest  true  "生成请求"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  httputil.ErrorResponse
// @Failure      413      {object}  httputil.ErrorResponse
// @Failure      500      {object}  httputil.ErrorResponse
// @Failure      504      {object}  httputil.ErrorResponse
// @Router       /aliyun/text-generation [post]
func (h *Handler) TextGeneration(c *gin.Context) {
	var req model.TextGenerationRequest
	if err := bindJSON(c, &req); err != nil {
		httputil.Abort(c, err)
		return
	}

	result, err := h.generation.Generate(c.Request.Context(), &req)
	if err != nil {
		httputil.Abort(c, err)
		return
	}

	if result.Stream == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", result.Completion)
		return
	}
	relayStream(c, result.Stream)
}

// relayStream 将上游分片逐帧转发为 SSE；客户端断开或写入失败时关闭读取端，上游随之停止
func relayStream(c *gin.Context, stream *schema.StreamReader[*dashscope.ChatCompletionChunk]) {
	defer stream.Close()

	metrics.StreamStarted()
	defer metrics.StreamEnded()

	ctx := c.Request.Context()
	requestID, _ := ctxutil.GetRequestID(ctx)
	logger := log.With().Str("request_id", requestID).Logger()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	chunks := 0
	for {
		select {
		case <-ctx.Done():
			logger.Warn().Err(ctx.Err()).Int("chunks", chunks).Msg("客户端断开，停止转发流式响应")
			return
		default:
		}

		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			metrics.RecordUpstreamError("dashscope")
			logger.Error().Err(err).Int("chunks", chunks).Msg("流式响应中断")
			return
		}

		content := chunk.DeltaContent()
		if content == "" {
			continue
		}
		frame, err := encodeFrame(content)
		if err != nil {
			logger.Error().Err(err).Msg("序列化 SSE 帧失败")
			return
		}
		if _, err := c.Writer.Write(frame); err != nil {
			logger.Warn().Err(err).Msg("写入 SSE 帧失败")
			return
		}
		c.Writer.Flush()
		chunks++
		metrics.RecordStreamChunk()
	}

	if _, err := c.Writer.WriteString(sseDone); err != nil {
		logger.Warn().Err(err).Msg("写入 SSE 结束帧失败")
		return
	}
	c.Writer.Flush()
	logger.Debug().Int("chunks", chunks).Msg("流式响应完成")
}

// encodeFrame 生成 data: {"content":"..."}\n\n，不转义 HTML 字符
func encodeFrame(content string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("data: ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(model.ChatChunk{Content: content}); err != nil {
		return nil, err
	}
	// Encode 自带一个换行
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
