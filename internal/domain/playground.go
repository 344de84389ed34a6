package domain

import "encoding/json"

// Диапазоны "полосы" (band), которые видит клиент
const (
	BandAuto   = "auto"
	BandLow    = "low"
	BandMedium = "medium"
	BandHigh   = "high"
)

// Тиры политики бэкенда
const (
	PolicySimple   = "simple"
	PolicyModerate = "moderate"
	PolicyComplex  = "complex"
)

const (
	ProviderAuto    = "auto"
	ProviderUnknown = "unknown"

	DefaultAgentID = "router-playground"
)

// BackendRunPayload — тело POST /v1/run.
type BackendRunPayload struct {
	Prompt          string           `json:"prompt"`
	AgentID         string           `json:"agent_id"`
	Context         json.RawMessage  `json:"context"`
	PolicyOverrides *PolicyOverrides `json:"policy_overrides,omitempty"`
	RouterMode      string           `json:"router_mode,omitempty"`
}

// PolicyOverrides — разреженная структура: в JSON попадают только реально заданные ключи.
type PolicyOverrides struct {
	ForceBand     string `json:"force_band,omitempty"`
	ForceProvider string `json:"force_provider,omitempty"`
}

// IsEmpty true, если ни одного override не задано.
func (p PolicyOverrides) IsEmpty() bool {
	return p.ForceBand == "" && p.ForceProvider == ""
}

// RunResult — стабильный контракт для UI поверх того, что вернул бэкенд.
type RunResult struct {
	Output    string          `json:"output"`
	Provider  string          `json:"provider"`
	Model     string          `json:"model"`
	Band      string          `json:"band"`
	LatencyMs float64         `json:"latency_ms"`
	Cost      RunCost         `json:"cost"`
	Usage     *Usage          `json:"usage"`
	Debug     json.RawMessage `json:"debug"`
}

type RunCost struct {
	TotalUSD float64 `json:"total_usd"`
}

// Usage — нормализованный блок токенов. Бэкенд может прислать input/output или prompt/completion.
type Usage struct {
	InputTokens  *int64 `json:"input_tokens"`
	OutputTokens *int64 `json:"output_tokens"`
	TotalTokens  *int64 `json:"total_tokens"`
}
