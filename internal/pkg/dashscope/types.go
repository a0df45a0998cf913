package dashscope

import (
	"encoding/json"
	"strconv"
)

// Message 对话消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Partial *bool  `json:"partial,omitempty"` // 前缀续写
}

// StreamOptions 流式输出选项
type StreamOptions struct {
	IncludeUsage *bool `json:"include_usage,omitempty"`
}

// ResponseFormat 输出格式
type ResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
	Strict     *bool           `json:"strict,omitempty"`
}

// ChatCompletionRequest 兼容模式对话请求
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	TopP           *float64        `json:"top_p,omitempty"`
	Stream         bool            `json:"stream"`
	StreamOptions  *StreamOptions  `json:"stream_options,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ExtraParams 百炼扩展参数，仅转发显式设置的字段
type ExtraParams struct {
	EnableThinking        *bool
	EnableSearch          *bool
	EnableCodeInterpreter *bool
}

type extraField struct {
	key   string
	value *bool
}

// fields 按固定顺序返回已设置的字段
func (e ExtraParams) fields() []extraField {
	all := []extraField{
		{"enable_thinking", e.EnableThinking},
		{"enable_search", e.EnableSearch},
		{"enable_code_interpreter", e.EnableCodeInterpreter},
	}
	set := all[:0]
	for _, f := range all {
		if f.value != nil {
			set = append(set, f)
		}
	}
	return set
}

// Empty 没有任何扩展参数
func (e ExtraParams) Empty() bool {
	return len(e.fields()) == 0
}

// Map 已设置字段的键值表
func (e ExtraParams) Map() map[string]bool {
	out := make(map[string]bool)
	for _, f := range e.fields() {
		out[f.key] = *f.value
	}
	return out
}

// ChatCompletionChunk 流式响应片段
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`
}

// ChunkChoice 流式候选
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

// ChunkDelta 增量内容
type ChunkDelta struct {
	Role             string `json:"role,omitempty"`
	Content          string `json:"content"`
	ReasoningContent string `json:"reasoning_content,omitempty"`
}

// Usage Token 用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// DeltaContent 第一个候选的增量文本，没有候选时为空
func (c *ChatCompletionChunk) DeltaContent() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// APIError 上游返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return strconv.Itoa(e.StatusCode) + " " + e.Message
}
