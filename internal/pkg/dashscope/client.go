package dashscope

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/cloudwego/eino/schema"

	"mzapi/internal/pkg/httpclient"
)

// DefaultBaseURL 百炼 OpenAI 兼容模式默认地址
const DefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

const (
	chatCompletionsPath = "/chat/completions"
	doneMarker          = "[DONE]"
	maxLineSize         = 1 << 20
	streamBufferSize    = 16
)

// Client 绑定单个 API Key 与 Base URL 的兼容模式客户端
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 指定底层 HTTP 客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient 创建客户端，baseURL 为空时使用默认地址
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpclient.Shared(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateChatCompletion 非流式调用，原样返回上游 JSON
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest, extra ExtraParams) (json.RawMessage, error) {
	resp, err := c.do(ctx, req, extra, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode response: invalid JSON body")
	}
	return body, nil
}

// CreateChatCompletionStream 流式调用；调用方负责消费并关闭返回的 StreamReader
func (c *Client) CreateChatCompletionStream(ctx context.Context, req *ChatCompletionRequest, extra ExtraParams) (*schema.StreamReader[*ChatCompletionChunk], error) {
	resp, err := c.do(ctx, req, extra, true)
	if err != nil {
		return nil, err
	}

	sr, sw := schema.Pipe[*ChatCompletionChunk](streamBufferSize)
	go relayEvents(resp.Body, sw)
	return sr, nil
}

func (c *Client) do(ctx context.Context, req *ChatCompletionRequest, extra ExtraParams, stream bool) (*http.Response, error) {
	body, err := buildBody(req, extra)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxLineSize))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	return resp, nil
}

// buildBody 序列化主参数，再把扩展参数合并到顶层
func buildBody(req *ChatCompletionRequest, extra ExtraParams) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	if extra.Empty() {
		return body, nil
	}
	for _, f := range extra.fields() {
		body, err = jsonparser.Set(body, []byte(strconv.FormatBool(*f.value)), f.key)
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", f.key, err)
		}
	}
	return body, nil
}

// errorMessage 优先取 error.message，否则返回原始响应体
func errorMessage(raw []byte) string {
	if msg, err := jsonparser.GetString(raw, "error", "message"); err == nil && msg != "" {
		return msg
	}
	if msg, err := jsonparser.GetString(raw, "message"); err == nil && msg != "" {
		return msg
	}
	if len(raw) == 0 {
		return http.StatusText(http.StatusInternalServerError)
	}
	return strings.TrimSpace(string(raw))
}

// relayEvents 解析 SSE 事件并写入 pipe，消费方关闭后立即停止
func relayEvents(body io.ReadCloser, sw *schema.StreamWriter[*ChatCompletionChunk]) {
	defer body.Close()
	defer sw.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == doneMarker {
			return
		}

		if msg, err := jsonparser.GetString([]byte(data), "error", "message"); err == nil {
			sw.Send(nil, fmt.Errorf("stream error: %s", msg))
			return
		}

		var chunk ChatCompletionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			sw.Send(nil, fmt.Errorf("decode chunk: %w", err))
			return
		}
		if closed := sw.Send(&chunk, nil); closed {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		sw.Send(nil, fmt.Errorf("read stream: %w", err))
	}
}
