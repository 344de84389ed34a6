package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: время ответа бэкенда по эндпоинтам
	BackendDuration *prometheus.HistogramVec

	// Degradation: сколько раз представление показало синтетические данные
	FallbackTotal *prometheus.CounterVec

	// Traffic: запуски из песочницы по исходу
	RunsTotal *prometheus.CounterVec

	// Saturation: состояние Circuit Breaker (0 - closed, 1 - half-open, 2 - open)
	CircuitBreakerState *prometheus.GaugeVec

	// Гонки: ответы, отброшенные как устаревшие
	StaleResponses *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		BackendDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_backend_request_duration_seconds",
			Help:    "Histogram of backend request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint", "status"}),

		FallbackTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_fetch_fallback_total",
			Help: "Total number of fetches served from synthetic fallback data.",
		}, []string{"endpoint"}),

		RunsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_playground_runs_total",
			Help: "Total number of playground runs proxied to the router.",
		}, []string{"band", "outcome"}), // outcome: ok, validation, upstream, failure

		CircuitBreakerState: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "console_circuit_breaker_state",
			Help: "Current state of the backend circuit breaker (0=closed, 1=half-open, 2=open).",
		}, []string{"backend"}),

		StaleResponses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_stale_responses_total",
			Help: "Responses discarded because a newer request superseded them.",
		}, []string{"view"}),
	}
}
