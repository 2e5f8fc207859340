// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層、ワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPRequest(method string, statusCode int)
	RecordHTTPLatency(duration time.Duration)
	RecordValidationFailure(entity string)
	RecordLogin()
	RecordRecordWritten(entity string)
	RecordSessionsPurged(count int64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests       *prometheus.CounterVec
	httpLatency        prometheus.Histogram
	validationFailures *prometheus.CounterVec
	logins             prometheus.Counter
	recordsWritten     *prometheus.CounterVec
	sessionsPurged     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cakery_http_requests_total",
			Help: "メソッド・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cakery_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cakery_validation_failures_total",
			Help: "エンティティ別のバリデーション失敗数",
		}, []string{"entity"}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cakery_logins_total",
			Help: "GitHub OAuthログイン成功の合計数",
		}),
		recordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cakery_records_written_total",
			Help: "エンティティ別の書き込み（作成・更新・削除）成功数",
		}, []string{"entity"}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cakery_sessions_purged_total",
			Help: "クリーンアップで削除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.validationFailures,
		c.logins,
		c.recordsWritten,
		c.sessionsPurged,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストをメソッド・ステータスコード別に記録する。
func (c *Collector) RecordHTTPRequest(method string, statusCode int) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPLatency はHTTPリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// RecordValidationFailure はバリデーション失敗を記録する。
// entityは"cake"または"consumer"。
func (c *Collector) RecordValidationFailure(entity string) {
	c.validationFailures.WithLabelValues(entity).Inc()
}

// RecordLogin はログイン成功を記録する。
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordRecordWritten はレコード書き込み成功を記録する。
func (c *Collector) RecordRecordWritten(entity string) {
	c.recordsWritten.WithLabelValues(entity).Inc()
}

// RecordSessionsPurged は削除された期限切れセッション数を記録する。
func (c *Collector) RecordSessionsPurged(count int64) {
	c.sessionsPurged.Add(float64(count))
}

// statusRecorder はレスポンスのステータスコードを捕捉するラッパー。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware はHTTPリクエスト数とレイテンシを記録するミドルウェアを返す。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			c.RecordHTTPRequest(r.Method, rec.statusCode)
			c.RecordHTTPLatency(time.Since(start))
		})
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
// ルーターの/metricsに直接マウントする。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
