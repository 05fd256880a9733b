package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/LeandroCantero/Escudle/internal/escudle/model"
)

// Metrics: 라운드 진행과 HTTP 처리 시간을 기록하는 계측 인터페이스
type Metrics interface {
	RoundStarted(mode model.Mode, difficulty model.Difficulty)
	RoundCompleted(mode model.Mode, difficulty model.Difficulty, won bool)
	Guess(mode model.Mode, correct bool)
	ObserveHTTP(route string, status int, duration time.Duration)
}

// PrometheusMetrics: Prometheus 기반 Metrics 구현체
type PrometheusMetrics struct {
	roundsStarted   *prometheus.CounterVec
	roundsCompleted *prometheus.CounterVec
	guesses         *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewMetrics: enabled 가 false 이거나 registerer 가 없으면 아무 것도 하지 않는 구현을 반환합니다.
func NewMetrics(enabled bool, reg prometheus.Registerer) Metrics {
	if !enabled || reg == nil {
		return NoopMetrics()
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		roundsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "escudle_rounds_started_total",
			Help: "Total number of rounds started",
		}, []string{"mode", "difficulty"}),

		roundsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "escudle_rounds_completed_total",
			Help: "Total number of rounds that reached a won or lost state",
		}, []string{"mode", "difficulty", "result"}),

		guesses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "escudle_guesses_total",
			Help: "Total number of accepted guesses",
		}, []string{"mode", "result"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "escudle_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

func (m *PrometheusMetrics) RoundStarted(mode model.Mode, difficulty model.Difficulty) {
	m.roundsStarted.WithLabelValues(string(mode), string(difficulty)).Inc()
}

func (m *PrometheusMetrics) RoundCompleted(mode model.Mode, difficulty model.Difficulty, won bool) {
	m.roundsCompleted.WithLabelValues(string(mode), string(difficulty), resultLabel(won)).Inc()
}

func (m *PrometheusMetrics) Guess(mode model.Mode, correct bool) {
	result := "miss"
	if correct {
		result = "hit"
	}
	m.guesses.WithLabelValues(string(mode), result).Inc()
}

func (m *PrometheusMetrics) ObserveHTTP(route string, status int, duration time.Duration) {
	m.httpDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(duration.Seconds())
}

func resultLabel(won bool) string {
	if won {
		return "won"
	}
	return "lost"
}

// NoopMetrics: 계측이 꺼져 있을 때 사용하는 구현을 반환합니다.
func NoopMetrics() Metrics { return noopMetrics{} }

type noopMetrics struct{}

func (noopMetrics) RoundStarted(_ model.Mode, _ model.Difficulty)           {}
func (noopMetrics) RoundCompleted(_ model.Mode, _ model.Difficulty, _ bool) {}
func (noopMetrics) Guess(_ model.Mode, _ bool)                              {}
func (noopMetrics) ObserveHTTP(_ string, _ int, _ time.Duration)            {}
