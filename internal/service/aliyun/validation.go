package aliyun

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	httputil "mzapi/internal/pkg/http"
)

// ModerationServices 支持的图片审核服务类型
var ModerationServices = []string{
	"baselineCheck",
	"baselineCheck_pro",
	"baselineCheck_cb",
	"tonalityImprove",
	"tonalityImprove_cb",
	"aigcCheck",
	"aigcCheck_cb",
	"profilePhotoCheck",
	"postImageCheck",
	"advertisingCheck",
	"liveStreamCheck",
	"riskDetection",
	"riskDetection_cb",
}

var moderationServiceSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ModerationServices))
	for _, s := range ModerationServices {
		set[s] = struct{}{}
	}
	return set
}()

// Param 待校验的命名参数
type Param struct {
	Name  string
	Value string
}

// ValidateRequiredParams 按声明顺序列出所有为空的参数
func ValidateRequiredParams(params ...Param) error {
	var missing []string
	for _, p := range params {
		if p.Value == "" {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		return httputil.NewBadRequest("缺少必填参数: " + strings.Join(missing, ", "))
	}
	return nil
}

// ValidateServiceType 校验审核服务类型
func ValidateServiceType(service string) error {
	if _, ok := moderationServiceSet[service]; !ok {
		return httputil.NewBadRequest("不支持的service类型: " + service)
	}
	return nil
}

// ValidateImageURL 校验图片地址非空
func ValidateImageURL(imageURL string) error {
	if imageURL == "" {
		return httputil.NewBadRequest("参数中必须包含imageUrl")
	}
	return nil
}

// BindingMessage 将请求绑定错误合并为一条消息，列出所有不满足的约束
func BindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body: " + err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return "参数校验失败: " + strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " 不能为空"
	case "required_if":
		return fmt.Sprintf("%s 在 %s 时不能为空", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s 必须是 [%s] 之一，当前值: %v", field, fe.Param(), fe.Value())
	case "url":
		return field + " 必须是合法的 URL"
	case "min":
		return fmt.Sprintf("%s 不能小于 %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s 不能大于 %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s 不满足约束 %s", field, fe.Tag())
	}
}

// fieldPath 去掉顶层结构体名，例如 TextGenerationRequest.Messages[0].Role → Messages[0].Role
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
