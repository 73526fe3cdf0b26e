// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordSignUp()
	RecordAnalysis(degraded bool)
	RecordAnalysisLatency(duration time.Duration)
	RecordResumeScored()
	RecordAutoApplyMatches(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess    prometheus.Counter
	loginFail       prometheus.Counter
	signUps         prometheus.Counter
	analyses        *prometheus.CounterVec
	analysisLatency prometheus.Histogram
	resumesScored   prometheus.Counter
	autoApplyMatch  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careernest_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careernest_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		signUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careernest_signups_total",
			Help: "サインアップの合計数",
		}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "careernest_analyses_total",
			Help: "キャリア分析の実行数（結果種別ごと）",
		}, []string{"outcome"}),
		analysisLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "careernest_analysis_latency_seconds",
			Help:    "キャリア分析のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		resumesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careernest_resumes_scored_total",
			Help: "ATSスコアリングされた履歴書の合計数",
		}),
		autoApplyMatch: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "careernest_auto_apply_matches_total",
			Help: "自動応募でマッチした求人の合計数",
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.signUps,
		c.analyses,
		c.analysisLatency,
		c.resumesScored,
		c.autoApplyMatch,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordSignUp はサインアップを記録する。
func (c *Collector) RecordSignUp() {
	c.signUps.Inc()
}

// RecordAnalysis はキャリア分析の実行を結果種別付きで記録する。
func (c *Collector) RecordAnalysis(degraded bool) {
	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	c.analyses.WithLabelValues(outcome).Inc()
}

// RecordAnalysisLatency はキャリア分析のレイテンシを記録する。
func (c *Collector) RecordAnalysisLatency(duration time.Duration) {
	c.analysisLatency.Observe(duration.Seconds())
}

// RecordResumeScored はATSスコアリングの実行を記録する。
func (c *Collector) RecordResumeScored() {
	c.resumesScored.Inc()
}

// RecordAutoApplyMatches はマッチした求人数を記録する。
func (c *Collector) RecordAutoApplyMatches(count int) {
	c.autoApplyMatch.Add(float64(count))
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

var _ MetricsCollector = (*Collector)(nil)
