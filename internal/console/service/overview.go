package service

import (
	"context"
	"net/url"
	"time"

	"github.com/xela07ax/agenticlabs-console/internal/analytics"
	"github.com/xela07ax/agenticlabs-console/internal/backend"
	"github.com/xela07ax/agenticlabs-console/internal/domain"
	"github.com/xela07ax/agenticlabs-console/internal/fetch"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
	"go.uber.org/zap"
)

// OverviewService собирает обзорную панель. Сбой бэкенда не ошибка:
// панель строится по синтетическому снапшоту и несет предупреждение.
type OverviewService struct {
	getter  fetch.Getter
	metrics *infra.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewOverviewService(getter fetch.Getter, metrics *infra.Metrics, logger *zap.Logger) *OverviewService {
	if metrics == nil {
		metrics = infra.NewMetrics(nil)
	}
	return &OverviewService{
		getter:  getter,
		metrics: metrics,
		logger:  logger.Named("overview-service"),
		now:     time.Now,
	}
}

// Overview загружает сводку за диапазон и считает производные метрики.
func (s *OverviewService) Overview(ctx context.Context, rangeKey string) analytics.Overview {
	rangeKey = domain.NormalizeRange(rangeKey)
	now := s.now()

	params := url.Values{"range": {rangeKey}}
	res := fetch.Fetch(ctx, s.getter, backend.PathMetricsSummary, params,
		func(p url.Values) domain.MetricsSummary {
			return analytics.SyntheticSummary(p.Get("range"), now, nil)
		})

	if res.UsedFallback {
		s.metrics.FallbackTotal.WithLabelValues(backend.PathMetricsSummary).Inc()
		s.logger.Warn("metrics summary unavailable, serving synthetic data",
			zap.String("range", rangeKey),
			zap.Error(res.Err))
	}

	o := analytics.Derive(res.Data)
	o.Range = rangeKey
	o.UsedFallback = res.UsedFallback
	o.Warning = res.Warning()
	o.GeneratedAt = now.UTC()
	return o
}
