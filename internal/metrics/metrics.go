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
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordSignup()
	RecordWeatherFetchSuccess()
	RecordWeatherFetchFailure(reason string)
	RecordWeatherFetchLatency(duration time.Duration)
	RecordTodoCreated()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus          *prometheus.CounterVec
	requestLatency      prometheus.Histogram
	signups             prometheus.Counter
	weatherFetchSuccess prometheus.Counter
	weatherFetchFail    *prometheus.CounterVec
	weatherFetchLatency prometheus.Histogram
	todosCreated        prometheus.Counter
}

var _ MetricsCollector = (*Collector)(nil)

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todoman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "todoman_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_signups_total",
			Help: "ユーザー登録の合計数",
		}),
		weatherFetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_weather_fetch_success_total",
			Help: "天気取得成功の合計数",
		}),
		weatherFetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todoman_weather_fetch_fail_total",
			Help: "天気取得失敗の合計数",
		}, []string{"reason"}),
		weatherFetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "todoman_weather_fetch_latency_seconds",
			Help:    "天気取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		todosCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_todos_created_total",
			Help: "作成されたTodoの合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.signups,
		c.weatherFetchSuccess,
		c.weatherFetchFail,
		c.weatherFetchLatency,
		c.todosCreated,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordSignup はユーザー登録を記録する。
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordWeatherFetchSuccess は天気取得成功を記録する。
func (c *Collector) RecordWeatherFetchSuccess() {
	c.weatherFetchSuccess.Inc()
}

// RecordWeatherFetchFailure は天気取得失敗を記録する。
func (c *Collector) RecordWeatherFetchFailure(reason string) {
	c.weatherFetchFail.WithLabelValues(reason).Inc()
}

// RecordWeatherFetchLatency は天気取得のレイテンシを記録する。
func (c *Collector) RecordWeatherFetchLatency(duration time.Duration) {
	c.weatherFetchLatency.Observe(duration.Seconds())
}

// RecordTodoCreated はTodoの作成を記録する。
func (c *Collector) RecordTodoCreated() {
	c.todosCreated.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
