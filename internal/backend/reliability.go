package backend

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sony/gobreaker"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// guard объединяет предохранитель и лимитер вокруг вызовов бэкенда.
// Повторов нет: повтор — это всегда действие пользователя (refresh).
type guard struct {
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// Отдельные предохранители для чтения и запусков: сбой /v1/logs не закрывает песочницу
const (
	breakerReads = "router-backend-reads"
	breakerRuns  = "router-backend-runs"
)

func newGuard(name string, cfg infra.BackendConfig, limiter *rate.Limiter, metrics *infra.Metrics, logger *zap.Logger) *guard {
	maxFailures := cfg.CBMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > maxFailures
		},
		// Любой HTTP ответ (включая 5xx) значит, что бэкенд доступен: статус уходит клиенту как есть.
		// Срабатываем только на транспортные сбои.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			_, upstream := IsUpstream(err)
			return upstream
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &guard{
		cb:      cb,
		limiter: limiter,
	}
}

// newRunLimiter — лимитер запусков песочницы; 0 — без ограничений
func newRunLimiter(cfg infra.BackendConfig) *rate.Limiter {
	limit := rate.Inf
	if cfg.RunRateLimit > 0 {
		limit = rate.Limit(cfg.RunRateLimit)
	}
	burst := cfg.RunRateBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}

// execute прогоняет вызов через лимитер (если задан) и предохранитель.
func (g *guard) execute(ctx context.Context, endpoint string, call func() ([]byte, error)) ([]byte, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Endpoint: endpoint, Cause: fmt.Errorf("rate limit: %w", err)}
		}
	}

	res, err := g.cb.Execute(func() (interface{}, error) {
		return call()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &TransportError{Endpoint: endpoint, Cause: err}
		}
		return nil, err
	}

	body, _ := res.([]byte)
	return body, nil
}

func statusLabel(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}
