package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidSummary = errors.New("invalid metrics summary")

// MetricsSummary — агрегат метрик роутера, как его отдает бэкенд (/v1/metrics/summary).
// Nullable поля моделируются указателями: nil означает "бэкенд не прислал значение".
type MetricsSummary struct {
	TotalRuns     int64    `json:"total_runs"`
	AvgLatencyMs  float64  `json:"avg_latency_ms"`
	TotalCostUSD  float64  `json:"total_cost_usd"`
	CostPerRunUSD *float64 `json:"cost_per_run_usd"`

	// Baseline появляется только после настройки эталонной модели
	BaselineCostUSD      *float64 `json:"baseline_cost_usd"`
	SavingsVsBaselineUSD *float64 `json:"savings_vs_baseline_usd"`
	SavingsPct           *float64 `json:"savings_pct"`

	// What-if — независимая оценка альтернативного сценария
	WhatIfCostUSD     *float64 `json:"what_if_cost_usd"`
	WhatIfVsActualUSD *float64 `json:"what_if_vs_actual_usd"`

	ProviderBreakdown []ProviderStat    `json:"provider_breakdown"`
	Timeseries        []TimeseriesPoint `json:"timeseries"`

	AvgAlriScore   *float64 `json:"avg_alri_score"`    // [0,10]
	HighAlriRunPct *float64 `json:"high_alri_run_pct"` // [0,100]
}

type ProviderStat struct {
	Provider     string  `json:"provider"`
	Runs         int64   `json:"runs"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

type TimeseriesPoint struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Requests int64   `json:"requests"`
	CostUSD  float64 `json:"cost_usd"`
}

// Validate проверяет структурные инварианты снапшота.
// Вызывается пайплайном загрузки: невалидный ответ считается сбоем и уходит в fallback.
func (m *MetricsSummary) Validate() error {
	if m.TotalRuns < 0 || m.AvgLatencyMs < 0 || m.TotalCostUSD < 0 {
		return fmt.Errorf("%w: negative counters", ErrInvalidSummary)
	}

	// Пара savings либо целиком null, либо целиком заполнена, и только вместе с baseline
	savingsNull := m.SavingsVsBaselineUSD == nil && m.SavingsPct == nil
	savingsSet := m.SavingsVsBaselineUSD != nil && m.SavingsPct != nil
	if !savingsNull && !savingsSet {
		return fmt.Errorf("%w: savings_vs_baseline_usd and savings_pct must be null together", ErrInvalidSummary)
	}
	if savingsSet != (m.BaselineCostUSD != nil) {
		return fmt.Errorf("%w: savings must be null iff baseline_cost_usd is null", ErrInvalidSummary)
	}

	if s := m.AvgAlriScore; s != nil && (*s < 0 || *s > 10) {
		return fmt.Errorf("%w: avg_alri_score %.2f out of [0,10]", ErrInvalidSummary, *s)
	}
	if p := m.HighAlriRunPct; p != nil && (*p < 0 || *p > 100) {
		return fmt.Errorf("%w: high_alri_run_pct %.2f out of [0,100]", ErrInvalidSummary, *p)
	}

	if len(m.ProviderBreakdown) > 0 {
		var sum int64
		for _, p := range m.ProviderBreakdown {
			if p.Runs < 0 || p.TotalCostUSD < 0 || p.AvgLatencyMs < 0 {
				return fmt.Errorf("%w: negative counters for provider %q", ErrInvalidSummary, p.Provider)
			}
			sum += p.Runs
		}
		if sum != m.TotalRuns {
			return fmt.Errorf("%w: provider runs sum %d != total_runs %d", ErrInvalidSummary, sum, m.TotalRuns)
		}
	}

	// Даты в формате YYYY-MM-DD сравниваются лексикографически
	for i := 1; i < len(m.Timeseries); i++ {
		if m.Timeseries[i].Date <= m.Timeseries[i-1].Date {
			return fmt.Errorf("%w: timeseries is not chronological at %s", ErrInvalidSummary, m.Timeseries[i].Date)
		}
	}
	return nil
}

// Float64 — хелпер для заполнения nullable полей в тестах и генераторах.
func Float64(v float64) *float64 {
	return &v
}

// Диапазоны обзорной панели
const (
	Range24h = "24h"
	Range7d  = "7d"
	Range30d = "30d"
)

// NormalizeRange приводит неизвестный ключ диапазона к 7d
func NormalizeRange(key string) string {
	switch key {
	case Range24h, Range7d, Range30d:
		return key
	default:
		return Range7d
	}
}

// RangeDays — число суток (и точек таймсерии) в диапазоне
func RangeDays(key string) int {
	switch NormalizeRange(key) {
	case Range24h:
		return 1
	case Range30d:
		return 30
	default:
		return 7
	}
}
