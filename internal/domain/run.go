package domain

import (
	"fmt"
	"strings"
)

// AlriTier — категориальный уровень риска ALRI
type AlriTier string

const (
	TierRedCritical  AlriTier = "red_critical"
	TierOrangeHigh   AlriTier = "orange_high"
	TierYellowMedium AlriTier = "yellow_medium"
	TierGreenLow     AlriTier = "green_low"
)

// Label превращает "orange_high" в "orange high" для отображения.
func (t AlriTier) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// RunRecord — одна строка журнала вызовов роутера (/v1/logs).
type RunRecord struct {
	ID        int64  `json:"id"`
	Timestamp int64  `json:"timestamp"` // секунды с epoch
	Band      string `json:"band"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`

	LatencyMs float64 `json:"latency_ms"`
	// Компоненты задержки опциональны; их сумма примерно равна LatencyMs, но это не проверяется
	RouterLatencyMs     *float64 `json:"router_latency_ms,omitempty"`
	ProviderLatencyMs   *float64 `json:"provider_latency_ms,omitempty"`
	ProcessingLatencyMs *float64 `json:"processing_latency_ms,omitempty"`

	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`

	CostUSD         float64 `json:"cost_usd"`
	BaselineCostUSD float64 `json:"baseline_cost_usd"`
	SavingsUSD      float64 `json:"savings_usd"` // baseline - cost, знак значим

	AlriScore *float64  `json:"alri_score"`
	AlriTier  *AlriTier `json:"alri_tier"`
}

// TotalTokens — сумма prompt и completion токенов.
func (r RunRecord) TotalTokens() int64 {
	return r.PromptTokens + r.CompletionTokens
}

// HasLatencyBreakdown true, если бэкенд прислал все три компоненты задержки.
func (r RunRecord) HasLatencyBreakdown() bool {
	return r.RouterLatencyMs != nil && r.ProviderLatencyMs != nil && r.ProcessingLatencyMs != nil
}

// LogsPage — страница журнала, как ее отдает бэкенд.
type LogsPage struct {
	Total  int64       `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
	Items  []RunRecord `json:"items"`
}

// Validate отбрасывает страницы с отрицательными счетчиками
func (p *LogsPage) Validate() error {
	if p.Total < 0 || p.Offset < 0 || p.Limit < 0 {
		return fmt.Errorf("invalid logs page: total=%d offset=%d limit=%d", p.Total, p.Offset, p.Limit)
	}
	for _, r := range p.Items {
		if r.PromptTokens < 0 || r.CompletionTokens < 0 {
			return fmt.Errorf("invalid logs page: negative tokens in run %d", r.ID)
		}
	}
	return nil
}
