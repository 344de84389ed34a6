package service

import (
	"context"
	"errors"

	"github.com/xela07ax/agenticlabs-console/internal/backend"
	"github.com/xela07ax/agenticlabs-console/internal/domain"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
	"github.com/xela07ax/agenticlabs-console/internal/proxy"
	"github.com/xela07ax/agenticlabs-console/internal/render"
	"go.uber.org/zap"
)

// Исходы запуска для метрик
const (
	outcomeOK         = "ok"
	outcomeValidation = "validation"
	outcomeUpstream   = "upstream"
	outcomeFailure    = "failure"
)

// PlaygroundService — запуски из песочницы через прокси трансляции.
type PlaygroundService struct {
	translator *proxy.Translator
	metrics    *infra.Metrics
	logger     *zap.Logger
}

func NewPlaygroundService(translator *proxy.Translator, metrics *infra.Metrics, logger *zap.Logger) *PlaygroundService {
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	return &PlaygroundService{
		translator: translator,
		metrics:    metrics,
		logger:     logger.Named("playground-service"),
	}
}

// Run пересылает тело клиента в роутер как есть; ошибки прокси не оборачиваются.
func (s *PlaygroundService) Run(ctx context.Context, raw []byte) (*domain.RunResult, error) {
	result, err := s.translator.Run(ctx, raw)
	if err != nil {
		outcome := classify(err)
		s.metrics.RunsTotal.WithLabelValues("none", outcome).Inc()
		if outcome != outcomeValidation {
			s.logger.Warn("playground run failed", zap.String("outcome", outcome), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.RunsTotal.WithLabelValues(result.Band, outcomeOK).Inc()
	return result, nil
}

// Theme выбирает макет песочницы: выбранный провайдер, иначе провайдер результата, иначе auto.
func (s *PlaygroundService) Theme(selected, resultProvider string) render.Theme {
	return render.ThemeFor(render.SelectProvider(selected, resultProvider))
}

func classify(err error) string {
	var vErr *proxy.ValidationError
	switch {
	case errors.As(err, &vErr):
		return outcomeValidation
	case isUpstream(err):
		return outcomeUpstream
	default:
		return outcomeFailure
	}
}

func isUpstream(err error) bool {
	_, ok := backend.IsUpstream(err)
	return ok
}
