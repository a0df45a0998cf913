package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	RequestsTotal.Reset()
	RequestDuration.Reset()

	RecordRequest("POST", "/aliyun/text-generation", 200, 0.2)
	RecordRequest("POST", "/aliyun/text-generation", 200, 0.3)

	count := testutil.ToFloat64(RequestsTotal.WithLabelValues("POST", "/aliyun/text-generation", "200"))
	if count != 2 {
		t.Errorf("RequestsTotal = %v, want 2", count)
	}
}

func TestRecordRequestUnmatchedRoute(t *testing.T) {
	RequestsTotal.Reset()

	RecordRequest("GET", "", 404, 0.001)

	count := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	if count != 1 {
		t.Errorf("RequestsTotal = %v, want 1", count)
	}
}

func TestRecordUpstreamError(t *testing.T) {
	UpstreamErrors.Reset()

	RecordUpstreamError("green")

	if v := testutil.ToFloat64(UpstreamErrors.WithLabelValues("green")); v != 1 {
		t.Errorf("UpstreamErrors = %v, want 1", v)
	}
}

func TestActiveStreams(t *testing.T) {
	ActiveStreams.Set(0)

	StreamStarted()
	StreamStarted()
	StreamEnded()

	if v := testutil.ToFloat64(ActiveStreams); v != 1 {
		t.Errorf("ActiveStreams = %v, want 1", v)
	}
}
