package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordHTTPRequest_IncrementsCounterWithLabels はHTTPリクエストカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPRequest_IncrementsCounterWithLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, 200)
	c.RecordHTTPRequest(http.MethodGet, 200)
	c.RecordHTTPRequest(http.MethodPost, 422)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "cakery_http_requests_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				labels := map[string]string{}
				for _, l := range m.GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				val := m.GetCounter().GetValue()
				switch labels["status_code"] {
				case "200":
					if labels["method"] != http.MethodGet || val != 2 {
						t.Errorf("http_requests_total{GET,200} = %v, want 2", val)
					}
				case "422":
					if labels["method"] != http.MethodPost || val != 1 {
						t.Errorf("http_requests_total{POST,422} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected status_code label: %s", labels["status_code"])
				}
			}
		}
	}
	if !found {
		t.Error("cakery_http_requests_total metric not found")
	}
}

// TestRecordHTTPLatency_ObservesHistogram はレイテンシのヒストグラムに値が記録されることを検証する。
func TestRecordHTTPLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPLatency(100 * time.Millisecond)
	c.RecordHTTPLatency(2 * time.Second)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "cakery_http_request_duration_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample_count = %d, want 2", h.GetSampleCount())
			}
			// 合計は0.1 + 2.0 = 2.1秒
			if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
				t.Errorf("sample_sum = %v, want ~2.1", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("cakery_http_request_duration_seconds metric not found")
	}
}

// TestRecordValidationFailure_IncrementsCounterByEntity はバリデーション失敗カウンタがエンティティ別に増加することを検証する。
func TestRecordValidationFailure_IncrementsCounterByEntity(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordValidationFailure("cake")
	c.RecordValidationFailure("cake")
	c.RecordValidationFailure("consumer")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "cakery_validation_failures_total" {
			found = true
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "cake":
					if val != 2 {
						t.Errorf("validation_failures_total{cake} = %v, want 2", val)
					}
				case "consumer":
					if val != 1 {
						t.Errorf("validation_failures_total{consumer} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected entity label: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("cakery_validation_failures_total metric not found")
	}
}

// TestRecordLogin_IncrementsCounter はログインカウンタが増加することを検証する。
func TestRecordLogin_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin()
	c.RecordLogin()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "cakery_logins_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 2 {
				t.Errorf("logins_total = %v, want 2", val)
			}
		}
	}
	if !found {
		t.Error("cakery_logins_total metric not found")
	}
}

// TestRecordSessionsPurged_AddsCount はセッション削除カウンタが加算されることを検証する。
func TestRecordSessionsPurged_AddsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSessionsPurged(10)
	c.RecordSessionsPurged(5)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "cakery_sessions_purged_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 15 {
				t.Errorf("sessions_purged_total = %v, want 15", val)
			}
		}
	}
	if !found {
		t.Error("cakery_sessions_purged_total metric not found")
	}
}

// TestMiddleware_RecordsRequestAndLatency はミドルウェアがリクエストとレイテンシを記録することを検証する。
func TestMiddleware_RecordsRequestAndLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := c.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/cakes", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	var requestCount float64
	var latencySamples uint64
	for _, mf := range metrics {
		switch mf.GetName() {
		case "cakery_http_requests_total":
			m := mf.GetMetric()[0]
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["method"] != http.MethodPost || labels["status_code"] != "201" {
				t.Errorf("unexpected labels: %v", labels)
			}
			requestCount = m.GetCounter().GetValue()
		case "cakery_http_request_duration_seconds":
			latencySamples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}

	if requestCount != 1 {
		t.Errorf("http_requests_total = %v, want 1", requestCount)
	}
	if latencySamples != 1 {
		t.Errorf("latency sample_count = %d, want 1", latencySamples)
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	// いくつかのメトリクスを記録
	c.RecordHTTPRequest(http.MethodGet, 200)
	c.RecordValidationFailure("cake")
	c.RecordLogin()
	c.RecordRecordWritten("consumer")
	c.RecordHTTPLatency(500 * time.Millisecond)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	// Prometheus形式のメトリクスが含まれていることを確認
	expectedMetrics := []string{
		"cakery_http_requests_total",
		"cakery_http_request_duration_seconds",
		"cakery_validation_failures_total",
		"cakery_logins_total",
		"cakery_records_written_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}
