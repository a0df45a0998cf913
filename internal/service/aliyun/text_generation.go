package aliyun

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"mzapi/internal/config"
	"mzapi/internal/model"
	"mzapi/internal/pkg/ctxutil"
	"mzapi/internal/pkg/dashscope"
	httputil "mzapi/internal/pkg/http"
	"mzapi/internal/pkg/metrics"
	"mzapi/internal/pkg/telemetry"
)

const textGenerationErrorPrefix = "阿里云百炼 API 调用失败: "

// ChatClient 兼容模式对话客户端
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req *dashscope.ChatCompletionRequest, extra dashscope.ExtraParams) (json.RawMessage, error)
	CreateChatCompletionStream(ctx context.Context, req *dashscope.ChatCompletionRequest, extra dashscope.ExtraParams) (*schema.StreamReader[*dashscope.ChatCompletionChunk], error)
}

// ChatClientFactory 按 API Key 与 Base URL 创建客户端
type ChatClientFactory func(apiKey, baseURL string) ChatClient

// TextGenerationResult 非流式时为 Completion，流式时为 Stream
type TextGenerationResult struct {
	Completion json.RawMessage
	Stream     *schema.StreamReader[*dashscope.ChatCompletionChunk]
}

// TextGenerationService 文本生成服务
type TextGenerationService struct {
	newClient      ChatClientFactory
	defaultBaseURL string
}

// NewTextGenerationService 创建文本生成服务，factory 为空时使用 dashscope 客户端
func NewTextGenerationService(cfg *config.Config, factory ChatClientFactory) *TextGenerationService {
	if factory == nil {
		factory = func(apiKey, baseURL string) ChatClient {
			return dashscope.NewClient(apiKey, baseURL)
		}
	}
	baseURL := cfg.Aliyun.DashScopeBaseURL
	if baseURL == "" {
		baseURL = dashscope.DefaultBaseURL
	}
	return &TextGenerationService{
		newClient:      factory,
		defaultBaseURL: baseURL,
	}
}

// Generate 调用百炼兼容模式接口；流式结果由调用方负责消费与关闭
func (s *TextGenerationService) Generate(ctx context.Context, req *model.TextGenerationRequest) (*TextGenerationResult, error) {
	baseURL := req.BaseURL
	if baseURL == "" {
		baseURL = s.defaultBaseURL
	}
	client := s.newClient(req.APIKey, baseURL)

	payload := BuildChatCompletionRequest(req)
	extra := BuildExtraParams(req)

	requestID, _ := ctxutil.GetRequestID(ctx)
	logger := log.With().Str("request_id", requestID).Str("model", req.Model).Logger()
	logger.Info().Bool("stream", payload.Stream).Msg("开始调用阿里云百炼 API")
	logger.Debug().Interface("extra", extra.Map()).Int("messages", len(payload.Messages)).Msg("请求参数")

	ctx, span := telemetry.StartUpstreamSpan(ctx, "dashscope.ChatCompletion", "dashscope", requestID)

	result := &TextGenerationResult{}
	var err error
	if payload.Stream {
		result.Stream, err = client.CreateChatCompletionStream(ctx, payload, extra)
	} else {
		result.Completion, err = client.CreateChatCompletion(ctx, payload, extra)
	}
	telemetry.EndSpan(span, err)

	if err != nil {
		metrics.RecordUpstreamError("dashscope")
		logger.Error().Err(err).Msg("阿里云百炼 API 调用失败")
		return nil, httputil.NewUpstreamError(textGenerationErrorPrefix, err)
	}

	logger.Debug().Msg("阿里云百炼 API 调用成功")
	return result, nil
}

// BuildChatCompletionRequest 组装主参数，未设置的可选字段不出现在请求体中
func BuildChatCompletionRequest(req *model.TextGenerationRequest) *dashscope.ChatCompletionRequest {
	messages := make([]dashscope.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = dashscope.Message{
			Role:    string(m.Role),
			Content: m.Content,
		}
		// 只有 assistant 消息支持前缀续写
		if m.Role == model.RoleAssistant {
			messages[i].Partial = m.Partial
		}
	}

	payload := &dashscope.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
		Stream:      req.IsStream(),
	}
	if req.StreamOptions != nil {
		payload.StreamOptions = &dashscope.StreamOptions{IncludeUsage: req.StreamOptions.IncludeUsage}
	}
	if req.ResponseFormat != nil {
		payload.ResponseFormat = &dashscope.ResponseFormat{
			Type:       req.ResponseFormat.Type,
			JSONSchema: req.ResponseFormat.JSONSchema,
			Strict:     req.ResponseFormat.Strict,
		}
	}
	return payload
}

// BuildExtraParams 只保留显式设置的扩展开关
func BuildExtraParams(req *model.TextGenerationRequest) dashscope.ExtraParams {
	return dashscope.ExtraParams{
		EnableThinking:        req.EnableThinking,
		EnableSearch:          req.EnableSearch,
		EnableCodeInterpreter: req.EnableCodeInterpreter,
	}
}
