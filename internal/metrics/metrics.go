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
// ミドルウェアとサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
	RecordContactCreated()
	RecordUploadURLIssued()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
	contactsCreated prometheus.Counter
	uploadURLs      prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contactman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contactman_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		contactsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contactman_contacts_created_total",
			Help: "作成された連絡先の合計数",
		}),
		uploadURLs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contactman_upload_urls_issued_total",
			Help: "発行されたアップロードURLの合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestDuration,
		c.contactsCreated,
		c.uploadURLs,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// RecordContactCreated は連絡先作成を記録する。
func (c *Collector) RecordContactCreated() {
	c.contactsCreated.Inc()
}

// RecordUploadURLIssued はアップロードURL発行を記録する。
func (c *Collector) RecordUploadURLIssued() {
	c.uploadURLs.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
