package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheLookups.WithLabelValues("test_op", CacheHit))
	RecordCacheLookup("test_op", CacheHit)
	RecordCacheLookup("test_op", CacheHit)
	if got := testutil.ToFloat64(CacheLookups.WithLabelValues("test_op", CacheHit)); got != before+2 {
		t.Errorf("expected %v hits, got %v", before+2, got)
	}
}

func TestRecordCompletion(t *testing.T) {
	before := testutil.ToFloat64(CompletionsRecorded.WithLabelValues("weekly"))
	RecordCompletion("weekly")
	if got := testutil.ToFloat64(CompletionsRecorded.WithLabelValues("weekly")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}

func TestHistogramsCollect(t *testing.T) {
	ObserveAnalytics("test_op", 3*time.Millisecond)
	RecordHTTPRequest("GET", "GET /health", 200, time.Millisecond)

	if n := testutil.CollectAndCount(AnalyticsDuration, "habitstreak_analytics_duration_seconds"); n == 0 {
		t.Error("expected analytics duration series")
	}
	if n := testutil.CollectAndCount(HTTPRequestDuration, "habitstreak_http_request_duration_seconds"); n == 0 {
		t.Error("expected http duration series")
	}
}
