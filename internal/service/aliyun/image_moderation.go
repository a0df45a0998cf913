package aliyun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mzapi/internal/config"
	"mzapi/internal/model"
	"mzapi/internal/pkg/ctxutil"
	"mzapi/internal/pkg/green"
	httputil "mzapi/internal/pkg/http"
	"mzapi/internal/pkg/id"
	"mzapi/internal/pkg/metrics"
	"mzapi/internal/pkg/telemetry"
)

const moderationErrorPrefix = "阿里云内容安全API调用失败: "

// ImageModerationService 图片内容审核服务
type ImageModerationService struct {
	newClient   green.ClientFactory
	apiVersion  string
	region      string
	readTimeout time.Duration
}

// NewImageModerationService 创建图片审核服务，factory 为空时使用 SDK 客户端
func NewImageModerationService(cfg *config.Config, factory green.ClientFactory) *ImageModerationService {
	if factory == nil {
		factory = green.NewClient
	}
	return &ImageModerationService{
		newClient:   factory,
		apiVersion:  cfg.Aliyun.ModerationVersion,
		region:      cfg.Aliyun.ModerationRegion,
		readTimeout: cfg.Gateway.RequestTimeout(),
	}
}

type serviceParameters struct {
	DataID   string `json:"dataId"`
	ImageURL string `json:"imageUrl"`
}

type moderationResult struct {
	body []byte
	err  error
}

// Moderate 调用 ImageModeration 并原样返回上游 JSON
func (s *ImageModerationService) Moderate(ctx context.Context, req *model.ImageModerationRequest) (json.RawMessage, error) {
	if err := ValidateRequiredParams(
		Param{Name: "accessKeyId", Value: req.AccessKeyID},
		Param{Name: "accessKeySecret", Value: req.AccessKeySecret},
		Param{Name: "endpoint", Value: req.Endpoint},
	); err != nil {
		return nil, err
	}
	if err := ValidateServiceType(req.Service); err != nil {
		return nil, err
	}
	if err := ValidateImageURL(req.ImageURL); err != nil {
		return nil, err
	}

	requestID, _ := ctxutil.GetRequestID(ctx)
	logger := log.With().Str("request_id", requestID).Str("service", req.Service).Logger()

	params, err := encodeServiceParameters(serviceParameters{DataID: id.New(), ImageURL: req.ImageURL})
	if err != nil {
		return nil, httputil.NewUpstreamError(moderationErrorPrefix, err)
	}

	// 每次调用使用独立凭证创建新客户端
	client, err := s.newClient(green.ClientConfig{
		AccessKeyID:     req.AccessKeyID,
		AccessKeySecret: req.AccessKeySecret,
		Endpoint:        req.Endpoint,
		APIVersion:      s.apiVersion,
		Region:          s.regionFor(req.Endpoint),
		ReadTimeout:     s.readTimeout,
	})
	if err != nil {
		metrics.RecordUpstreamError("green")
		return nil, httputil.NewUpstreamError(moderationErrorPrefix, err)
	}

	ctx, span := telemetry.StartUpstreamSpan(ctx, "green.ImageModeration", "green", requestID)
	logger.Info().Str("endpoint", req.Endpoint).Msg("开始调用阿里云内容安全 API")

	// SDK 不接受 context，超时或断开时放弃等待
	done := make(chan moderationResult, 1)
	go func() {
		body, err := client.ImageModeration(req.Service, params)
		done <- moderationResult{body: body, err: err}
	}()

	var res moderationResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	telemetry.EndSpan(span, res.err)

	if res.err != nil {
		metrics.RecordUpstreamError("green")
		logger.Error().Err(res.err).Msg("阿里云内容安全 API 调用失败")
		return nil, httputil.NewUpstreamError(moderationErrorPrefix, res.err)
	}
	if !json.Valid(res.body) {
		metrics.RecordUpstreamError("green")
		return nil, httputil.NewUpstreamError(moderationErrorPrefix, fmt.Errorf("invalid JSON response"))
	}

	logger.Debug().Msg("阿里云内容安全 API 调用成功")
	return res.body, nil
}

// regionFor 配置的地域仅在 endpoint 无法推断时使用
func (s *ImageModerationService) regionFor(endpoint string) string {
	fallback := s.region
	if fallback == "" {
		fallback = green.DefaultRegion
	}
	return green.RegionFromEndpoint(endpoint, fallback)
}

// encodeServiceParameters 序列化 ServiceParameters，URL 中的 & 不做转义
func encodeServiceParameters(p serviceParameters) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
