package model

// APIInfo 接口清单中的单个接口
type APIInfo struct {
	Name          string `json:"name"`
	Endpoint      string `json:"endpoint"`
	Method        string `json:"method"`
	Description   string `json:"description"`
	Documentation string `json:"documentation,omitempty"`
	LaunchDate    string `json:"launchDate"`
}

// Manifest 根路径返回的服务清单
type Manifest struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	APIs        []APIInfo `json:"apis"`
}

// ChatChunk 流式对话片段（SSE data 负载）
type ChatChunk struct {
	Content string `json:"content"`
}
