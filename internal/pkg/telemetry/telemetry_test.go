package telemetry

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	otelcodes "go.opentelemetry.io/otel/codes"

	"mzapi/internal/config"
)

func TestInitDisabled(t *testing.T) {
	Convey("未配置 OTLP 地址时不导出", t, func() {
		shutdown, err := Init(context.Background(), &config.TelemetryConfig{ServiceName: "mzapi-test"})
		So(err, ShouldBeNil)
		So(shutdown(context.Background()), ShouldBeNil)
		So(Tracer(), ShouldNotBeNil)
	})
}

func TestUpstreamSpan(t *testing.T) {
	Convey("上游调用 span 记录属性与错误", t, func() {
		recorder := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		tracer = tp.Tracer("mzapi-test")
		defer func() { tracer = nil }()

		ctx, span := StartUpstreamSpan(context.Background(), "green.ImageModeration", "green", "req-1")
		So(GetTraceID(ctx), ShouldNotBeEmpty)
		EndSpan(span, errors.New("boom"))

		ended := recorder.Ended()
		So(ended, ShouldHaveLength, 1)
		So(ended[0].Name(), ShouldEqual, "green.ImageModeration")
		So(ended[0].Status().Code, ShouldEqual, otelcodes.Error)
	})
}
