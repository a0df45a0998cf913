package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Aliyun    AliyunConfig    `mapstructure:"aliyun"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // 流式响应需要为 0
}

// GatewayConfig 网关拦截器配置
type GatewayConfig struct {
	MaxBodySizeMB    int    `mapstructure:"max_body_size_mb"`   // 请求体上限（MB）
	RequestTimeoutMs int    `mapstructure:"request_timeout_ms"` // 请求处理超时（毫秒）
	ServiceHeader    string `mapstructure:"service_header"`     // Service 响应头
	ContentLanguage  string `mapstructure:"content_language"`   // Content-Language 响应头
}

// MaxBodyBytes 请求体上限（字节）
func (g GatewayConfig) MaxBodyBytes() int64 {
	return int64(g.MaxBodySizeMB) * 1024 * 1024
}

// RequestTimeout 请求处理超时
func (g GatewayConfig) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutMs) * time.Millisecond
}

// AliyunConfig 阿里云上游配置
type AliyunConfig struct {
	DashScopeBaseURL  string `mapstructure:"dashscope_base_url"` // 百炼兼容模式默认地址
	ModerationVersion string `mapstructure:"moderation_version"` // 内容安全 API 版本
	ModerationRegion  string `mapstructure:"moderation_region"`  // 无法从 endpoint 推断时使用
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"` // 为空时按 env 推断
	Env        string `mapstructure:"env"`   // production / development
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// EffectiveLevel 生效的日志级别
func (l LogConfig) EffectiveLevel() string {
	if l.Level != "" {
		return l.Level
	}
	if l.Env == "production" {
		return "info"
	}
	return "debug"
}

// MetricsConfig 管理端口配置
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // 为空则不启动管理端口
}

// TelemetryConfig OpenTelemetry 配置
type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"` // 为空则仅使用全局 noop tracer
}

// Default 默认配置（测试与无配置文件时使用）
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3000,
			Mode:        "release",
			ReadTimeout: 30 * time.Second,
		},
		Gateway: GatewayConfig{
			MaxBodySizeMB:    10,
			RequestTimeoutMs: 30000,
			ServiceHeader:    "MZAPI/EdgeOne-Proxy",
			ContentLanguage:  "zh-CN",
		},
		Aliyun: AliyunConfig{
			DashScopeBaseURL:  "https://dashscope.aliyuncs.com/compatible-mode/v1",
			ModerationVersion: "2022-03-02",
			ModerationRegion:  "cn-shanghai",
		},
		Log: LogConfig{
			Env:        "development",
			Format:     "console",
			Output:     "stdout",
			TimeFormat: "RFC3339",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "mzapi",
		},
	}
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Gateway.MaxBodySizeMB <= 0 {
		return errors.New("invalid gateway.max_body_size_mb, must be positive")
	}
	if c.Gateway.RequestTimeoutMs <= 0 {
		return errors.New("invalid gateway.request_timeout_ms, must be positive")
	}

	return nil
}
