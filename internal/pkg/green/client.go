package green

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk"
	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
)

const (
	// DefaultAPIVersion 内容安全增强版 API 版本
	DefaultAPIVersion = "2022-03-02"
	// DefaultRegion endpoint 无法推断地域时使用
	DefaultRegion = "cn-shanghai"

	imageModerationAction = "ImageModeration"
)

// Client 内容安全 RPC 客户端
type Client interface {
	ImageModeration(service, serviceParameters string) ([]byte, error)
}

// ClientConfig 单次调用的凭证与连接参数
type ClientConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	Endpoint        string
	APIVersion      string
	Region          string        // 为空时从 Endpoint 推断
	ReadTimeout     time.Duration // 为 0 时使用 SDK 默认值
}

// ClientFactory 按调用创建客户端，不在请求之间复用
type ClientFactory func(cfg ClientConfig) (Client, error)

type rpcClient struct {
	sdkClient   *sdk.Client
	domain      string
	version     string
	readTimeout time.Duration
}

// NewClient 基于 alibaba-cloud-sdk-go 的 CommonRequest 创建客户端
func NewClient(cfg ClientConfig) (Client, error) {
	domain := Host(cfg.Endpoint)
	region := cfg.Region
	if region == "" {
		region = RegionFromEndpoint(domain, DefaultRegion)
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	client, err := sdk.NewClientWithAccessKey(region, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("create green client: %w", err)
	}

	return &rpcClient{
		sdkClient:   client,
		domain:      domain,
		version:     version,
		readTimeout: cfg.ReadTimeout,
	}, nil
}

func (c *rpcClient) ImageModeration(service, serviceParameters string) ([]byte, error) {
	request := requests.NewCommonRequest()
	request.Method = requests.POST
	request.Scheme = "https"
	request.Domain = c.domain
	request.Version = c.version
	request.ApiName = imageModerationAction
	request.QueryParams["Service"] = service
	request.QueryParams["ServiceParameters"] = serviceParameters
	if c.readTimeout > 0 {
		request.SetReadTimeout(c.readTimeout)
	}

	response, err := c.sdkClient.ProcessCommonRequest(request)
	if err != nil {
		return nil, err
	}
	return response.GetHttpContentBytes(), nil
}

// Host 去掉 endpoint 中可能携带的协议与路径
func Host(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if strings.Contains(endpoint, "://") {
		if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return strings.TrimRight(endpoint, "/")
}

// RegionFromEndpoint 从 green-cip.<region>.aliyuncs.com 形式的地址中取出地域
func RegionFromEndpoint(endpoint, fallback string) string {
	host := Host(endpoint)
	if !strings.HasSuffix(host, ".aliyuncs.com") {
		return fallback
	}
	parts := strings.Split(host, ".")
	if len(parts) != 4 || parts[1] == "" {
		return fallback
	}
	return parts[1]
}
