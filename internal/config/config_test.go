package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidate(t *testing.T) {
	Convey("配置校验", t, func() {
		Convey("默认配置有效", func() {
			So(Default().Validate(), ShouldBeNil)
		})

		Convey("端口越界", func() {
			cfg := Default()
			cfg.Server.Port = 70000
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("非法运行模式", func() {
			cfg := Default()
			cfg.Server.Mode = "prod"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("请求体上限必须为正", func() {
			cfg := Default()
			cfg.Gateway.MaxBodySizeMB = 0
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("超时必须为正", func() {
			cfg := Default()
			cfg.Gateway.RequestTimeoutMs = -1
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}

func TestGatewayDerived(t *testing.T) {
	Convey("网关派生值", t, func() {
		g := GatewayConfig{MaxBodySizeMB: 10, RequestTimeoutMs: 1500}
		So(g.MaxBodyBytes(), ShouldEqual, int64(10485760))
		So(g.RequestTimeout(), ShouldEqual, 1500*time.Millisecond)
	})
}

func TestEffectiveLevel(t *testing.T) {
	Convey("日志级别推断", t, func() {
		So(LogConfig{Env: "production"}.EffectiveLevel(), ShouldEqual, "info")
		So(LogConfig{Env: "development"}.EffectiveLevel(), ShouldEqual, "debug")
		So(LogConfig{}.EffectiveLevel(), ShouldEqual, "debug")
		So(LogConfig{Level: "warn", Env: "production"}.EffectiveLevel(), ShouldEqual, "warn")
	})
}
