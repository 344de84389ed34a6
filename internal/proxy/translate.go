// Package proxy переводит запросы песочницы в словарь политик бэкенда
// и приводит ответы бэкенда к стабильному контракту RunResult.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
	"go.uber.org/zap"
)

// bandMap — граница контракта, а не эвристика: значения должны совпадать буквально.
var bandMap = map[string]string{
	domain.BandLow:    domain.PolicySimple,
	domain.BandMedium: domain.PolicyModerate,
	domain.BandHigh:   domain.PolicyComplex,
}

// MapBand возвращает тир бэкенда; ok == false означает "без override" (решает бэкенд).
func MapBand(band string) (string, bool) {
	tier, ok := bandMap[band]
	return tier, ok
}

// ValidationError — некорректный ввод клиента, бэкенд не вызывается.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RunBackend — то, что нужно прокси от клиента бэкенда.
type RunBackend interface {
	PostRun(ctx context.Context, payload domain.BackendRunPayload) ([]byte, error)
}

type Translator struct {
	backend RunBackend
	agentID string
	logger  *zap.Logger
}

func NewTranslator(backend RunBackend, agentID string, logger *zap.Logger) *Translator {
	if agentID == "" {
		agentID = domain.DefaultAgentID
	}
	return &Translator{
		backend: backend,
		agentID: agentID,
		logger:  logger.Named("proxy"),
	}
}

// Plan — результат сборки исходящего запроса
type Plan struct {
	Payload    domain.BackendRunPayload
	MappedBand string // пусто, если band не переопределен
}

// EchoBand — band для ответа: переопределенный тир или "auto"
func (p Plan) EchoBand() string {
	if p.MappedBand == "" {
		return domain.BandAuto
	}
	return p.MappedBand
}

// BuildPayload разбирает тело клиента и собирает запрос к /v1/run.
// Поля не строкового типа считаются отсутствующими.
func (t *Translator) BuildPayload(raw []byte) (Plan, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return Plan{}, &ValidationError{Message: "Request body must be a JSON object"}
	}

	prompt, ok := stringField(body, "prompt")
	if !ok || strings.TrimSpace(prompt) == "" {
		return Plan{}, &ValidationError{Message: "Prompt is required"}
	}

	var plan Plan
	var overrides domain.PolicyOverrides

	if band, ok := stringField(body, "band"); ok {
		if tier, ok := MapBand(band); ok {
			overrides.ForceBand = tier
			plan.MappedBand = tier
		}
	}
	if provider, ok := stringField(body, "force_provider"); ok && provider != "" && provider != domain.ProviderAuto {
		overrides.ForceProvider = provider
	}

	agentID := t.agentID
	if v, ok := stringField(body, "agent_id"); ok && v != "" {
		agentID = v
	}

	// context пересылается как есть; отсутствует или null — пустой объект
	ctxJSON := json.RawMessage(`{}`)
	if v, ok := body["context"]; ok && !isNull(v) {
		ctxJSON = v
	}

	plan.Payload = domain.BackendRunPayload{
		Prompt:  prompt,
		AgentID: agentID,
		Context: ctxJSON,
	}
	// Пустой набор не отправляется вовсе, чтобы бэкенд пошел по политике по умолчанию
	if !overrides.IsEmpty() {
		plan.Payload.PolicyOverrides = &overrides
	}
	if mode, ok := stringField(body, "router_mode"); ok {
		plan.Payload.RouterMode = mode
	}
	return plan, nil
}

// Run валидирует, пересылает и приводит ответ к RunResult.
// Ошибки: *ValidationError, *backend.UpstreamError (статус и тело бэкенда), остальные — 500.
func (t *Translator) Run(ctx context.Context, raw []byte) (*domain.RunResult, error) {
	plan, err := t.BuildPayload(raw)
	if err != nil {
		return nil, err
	}

	body, err := t.backend.PostRun(ctx, plan.Payload)
	if err != nil {
		return nil, err
	}

	result, err := Reshape(body, plan.EchoBand())
	if err != nil {
		return nil, err
	}

	t.logger.Debug("run proxied",
		zap.String("band", result.Band),
		zap.String("provider", result.Provider),
		zap.String("model", result.Model),
		zap.Float64("latency_ms", result.LatencyMs))
	return result, nil
}

// Reshape приводит тело 2xx ответа бэкенда к RunResult с дефолтами для отсутствующих полей.
// Поле неверного типа считается отсутствующим; не-объект дает одни дефолты.
// Ошибка только для тела, которое не является JSON.
func Reshape(body []byte, band string) (*domain.RunResult, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode router response: invalid JSON (%d bytes)", len(body))
	}

	result := &domain.RunResult{
		Provider: domain.ProviderUnknown,
		Model:    domain.ProviderUnknown,
		Band:     band,
		Debug:    json.RawMessage(body),
	}

	resp := objectOf(body)
	if v, ok := stringField(resp, "output"); ok {
		result.Output = v
	}
	provenance := objectOf(resp["provenance"])
	if v, ok := stringField(provenance, "provider"); ok && v != "" {
		result.Provider = v
	}
	if v, ok := stringField(provenance, "model"); ok && v != "" {
		result.Model = v
	}
	metrics := objectOf(resp["metrics"])
	if v, ok := numberField(metrics, "latency_ms"); ok {
		result.LatencyMs = v
	}
	if v, ok := numberField(metrics, "cost_usd"); ok {
		result.Cost.TotalUSD = v
	}
	result.Usage = parseUsage(metrics["usage"])
	return result, nil
}

// parseUsage понимает input/output и prompt/completion; null или не-объект дают nil.
func parseUsage(raw json.RawMessage) *domain.Usage {
	if !isObject(raw) {
		return nil
	}
	u := objectOf(raw)

	usage := &domain.Usage{
		InputTokens:  firstNonNil(intField(u, "input_tokens"), intField(u, "prompt_tokens")),
		OutputTokens: firstNonNil(intField(u, "output_tokens"), intField(u, "completion_tokens")),
		TotalTokens:  intField(u, "total_tokens"),
	}
	if usage.TotalTokens == nil && usage.InputTokens != nil && usage.OutputTokens != nil {
		total := *usage.InputTokens + *usage.OutputTokens
		usage.TotalTokens = &total
	}
	return usage
}

// objectOf разбирает JSON объект; для всего остального возвращает nil map
func objectOf(raw json.RawMessage) map[string]json.RawMessage {
	if !isObject(raw) {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func numberField(body map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := body[key]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

func intField(body map[string]json.RawMessage, key string) *int64 {
	raw, ok := body[key]
	if !ok {
		return nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}

func stringField(body map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := body[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func firstNonNil(vals ...*int64) *int64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
