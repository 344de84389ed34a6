// Package analytics вычисляет производные метрики обзорной панели.
//
// Для каждого поля цепочка разрешения значений задана явно:
//
//	cost_per_run   : backend cost_per_run_usd -> total_cost_usd / max(1, total_runs)
//	savings        : savings_vs_baseline_usd И savings_pct -> "unavailable"
//	what_if_delta  : what_if_vs_actual_usd -> what_if_cost_usd - total_cost_usd -> nil (если what_if_cost_usd nil)
//	high_alri      : high_alri_run_pct -> "unavailable"
//	avg_alri       : avg_alri_score -> "unavailable"
//
// Округление применяется только в строках Display; числовые поля сохраняют полную точность.
package analytics

import (
	"time"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
	"github.com/xela07ax/agenticlabs-console/internal/risk"
)

// Unavailable — маркер отсутствующей метрики (никогда не догадка)
const Unavailable = "unavailable"

// EmptyMessage — пустое состояние, когда запусков еще не было
const EmptyMessage = "No runs recorded yet"

// Overview — производное представление для обзорной панели.
type Overview struct {
	Range   string                `json:"range"`
	Summary domain.MetricsSummary `json:"summary"`

	CostPerRunUSD  float64  `json:"cost_per_run_usd"`
	WhatIfDeltaUSD *float64 `json:"what_if_delta_usd"`

	Providers  []ProviderShare `json:"providers"`
	RiskShares []RiskShare     `json:"risk_shares"`

	Display Display `json:"display"`

	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"empty_message,omitempty"`

	UsedFallback bool      `json:"used_fallback"`
	Warning      string    `json:"warning,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Display — строки для карточек, уже округленные
type Display struct {
	TotalRuns  string `json:"total_runs"`
	AvgLatency string `json:"avg_latency"`
	TotalCost  string `json:"total_cost"`
	CostPerRun string `json:"cost_per_run"`
	Baseline   string `json:"baseline"`
	Savings    string `json:"savings"`
	WhatIf     string `json:"what_if"`
	HighAlri   string `json:"high_alri"`
	AvgAlri    string `json:"avg_alri"`
}

// ProviderShare — доля провайдера в запусках и стоимости
type ProviderShare struct {
	domain.ProviderStat
	RunSharePct  float64 `json:"run_share_pct"`
	CostSharePct float64 `json:"cost_share_pct"`
}

// RiskShare — доля запусков высокого риска и остальных
type RiskShare struct {
	Group string  `json:"group"` // high, other
	Pct   float64 `json:"pct"`
}

// Derive — чистая функция над MetricsSummary.
func Derive(s domain.MetricsSummary) Overview {
	o := Overview{
		Summary:        s,
		CostPerRunUSD:  CostPerRun(s),
		WhatIfDeltaUSD: WhatIfDelta(s),
		Providers:      ProviderShares(s),
		RiskShares:     RiskShares(s),
		Empty:          s.TotalRuns == 0,
	}
	if o.Empty {
		o.EmptyMessage = EmptyMessage
	}

	o.Display = Display{
		TotalRuns:  Count(s.TotalRuns),
		AvgLatency: Millis(s.AvgLatencyMs),
		TotalCost:  USD(s.TotalCostUSD),
		CostPerRun: USD(o.CostPerRunUSD),
		Baseline:   optional(s.BaselineCostUSD, USD),
		Savings:    SavingsDisplay(s),
		WhatIf:     WhatIfDisplay(s.WhatIfCostUSD, o.WhatIfDeltaUSD),
		HighAlri:   optional(s.HighAlriRunPct, Percent),
		AvgAlri:    AlriDisplay(s.AvgAlriScore),
	}
	return o
}

// CostPerRun: значение бэкенда, иначе total / max(1, runs) — ноль запусков дает 0.
func CostPerRun(s domain.MetricsSummary) float64 {
	if s.CostPerRunUSD != nil {
		return *s.CostPerRunUSD
	}
	return s.TotalCostUSD / float64(max(1, s.TotalRuns))
}

// SavingsDisplay форматирует экономию, только если оба поля пары заданы.
func SavingsDisplay(s domain.MetricsSummary) string {
	if s.SavingsVsBaselineUSD == nil || s.SavingsPct == nil {
		return Unavailable
	}
	return USD(*s.SavingsVsBaselineUSD) + " (" + Percent(*s.SavingsPct) + ")"
}

// WhatIfDelta: значение бэкенда, иначе разница what_if - actual, если сама оценка есть.
func WhatIfDelta(s domain.MetricsSummary) *float64 {
	if s.WhatIfVsActualUSD != nil {
		v := *s.WhatIfVsActualUSD
		return &v
	}
	if s.WhatIfCostUSD != nil {
		v := *s.WhatIfCostUSD - s.TotalCostUSD
		return &v
	}
	return nil
}

func WhatIfDisplay(cost, delta *float64) string {
	if cost == nil {
		return Unavailable
	}
	if delta == nil {
		return USD(*cost)
	}
	return USD(*cost) + " (" + SignedUSD(*delta) + " vs actual)"
}

// ProviderShares считает доли провайдеров; при нулевых итогах доли равны 0.
func ProviderShares(s domain.MetricsSummary) []ProviderShare {
	var runs int64
	var cost float64
	for _, p := range s.ProviderBreakdown {
		runs += p.Runs
		cost += p.TotalCostUSD
	}

	shares := make([]ProviderShare, 0, len(s.ProviderBreakdown))
	for _, p := range s.ProviderBreakdown {
		ps := ProviderShare{ProviderStat: p}
		if runs > 0 {
			ps.RunSharePct = float64(p.Runs) / float64(runs) * 100
		}
		if cost > 0 {
			ps.CostSharePct = p.TotalCostUSD / cost * 100
		}
		shares = append(shares, ps)
	}
	return shares
}

// RiskShares делит запуски на high/other по high_alri_run_pct; nil, если метрики нет.
func RiskShares(s domain.MetricsSummary) []RiskShare {
	if s.HighAlriRunPct == nil {
		return nil
	}
	return []RiskShare{
		{Group: "high", Pct: *s.HighAlriRunPct},
		{Group: "other", Pct: 100 - *s.HighAlriRunPct},
	}
}

// AlriDisplay: "3.4 / 10 (yellow medium)"
func AlriDisplay(score *float64) string {
	if score == nil {
		return Unavailable
	}
	return Fixed(*score, 1) + " / 10 (" + risk.TierForScore(*score).Label() + ")"
}

func optional(v *float64, format func(float64) string) string {
	if v == nil {
		return Unavailable
	}
	return format(*v)
}
