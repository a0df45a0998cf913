package model

import "encoding/json"

// ImageModerationRequest 图片内容审核请求
type ImageModerationRequest struct {
	// 审核服务类型
	Service string `json:"service" binding:"required,oneof=baselineCheck baselineCheck_pro baselineCheck_cb tonalityImprove tonalityImprove_cb aigcCheck aigcCheck_cb profilePhotoCheck postImageCheck advertisingCheck liveStreamCheck riskDetection riskDetection_cb"`

	AccessKeyID     string `json:"accessKeyId" binding:"required"`     // 阿里云 AccessKey ID
	AccessKeySecret string `json:"accessKeySecret" binding:"required"` // 阿里云 AccessKey Secret
	Endpoint        string `json:"endpoint" binding:"required"`        // 例如 green-cip.cn-shanghai.aliyuncs.com
	ImageURL        string `json:"imageUrl" binding:"required,url"`    // 待审核图片地址
}

// MessageRole 消息角色
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage 对话消息
type ChatMessage struct {
	Role    MessageRole `json:"role" binding:"required,oneof=system user assistant"`
	Content string      `json:"content" binding:"required"`
	Partial *bool       `json:"partial,omitempty"` // assistant 前缀续写
}

// StreamOptions 流式输出选项
type StreamOptions struct {
	IncludeUsage *bool `json:"include_usage,omitempty"` // 最后一个数据包是否携带 Token 用量
}

// ResponseFormat 响应格式
type ResponseFormat struct {
	Type       string          `json:"type" binding:"required,oneof=text json_object json_schema"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty" binding:"required_if=Type json_schema"`
	Strict     *bool           `json:"strict,omitempty"` // 严格遵循 json_schema
}

// TextGenerationRequest 文本生成请求
type TextGenerationRequest struct {
	Model    string        `json:"model" binding:"required"`                  // 例如 qwen-plus
	APIKey   string        `json:"apiKey" binding:"required"`                 // 百炼 API Key
	BaseURL  string        `json:"baseURL,omitempty" binding:"omitempty,url"` // 为空时使用北京地域
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`

	Temperature *float64 `json:"temperature,omitempty" binding:"omitempty,min=0,max=2"`
	MaxTokens   *int     `json:"max_tokens,omitempty" binding:"omitempty,min=1"`
	TopP        *float64 `json:"top_p,omitempty" binding:"omitempty,min=0,max=1"`
	Stream      *bool    `json:"stream,omitempty"`

	EnableThinking        *bool `json:"enable_thinking,omitempty"`
	EnableSearch          *bool `json:"enable_search,omitempty"`
	EnableCodeInterpreter *bool `json:"enable_code_interpreter,omitempty"`

	StreamOptions  *StreamOptions  `json:"stream_options,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// IsStream 是否请求流式输出
func (r *TextGenerationRequest) IsStream() bool {
	return r.Stream != nil && *r.Stream
}
