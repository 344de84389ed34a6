package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/agenticlabs-console/internal/domain"
	"github.com/xela07ax/agenticlabs-console/internal/risk"
	"go.uber.org/zap"
)

// price — стоимость за 1k токенов
type price struct {
	input  float64
	output float64
}

var stubPricing = map[string]price{
	"llama3.1:8b-instruct": {0, 0},
	"gpt-4o-mini":          {0.00015, 0.0006},
	"claude-3.5-sonnet":    {0.003, 0.015},
	"gpt-4o":               {0.0025, 0.01},
	"claude-3.5-haiku":     {0.0008, 0.004},
	"grok-2":               {0.002, 0.01},
	"gemini-1.5-flash":     {0.000075, 0.0003},
}

// Модель по умолчанию для провайдера и эталоны для baseline/what-if
var (
	stubModels = map[string]string{
		"ollama":    "llama3.1:8b-instruct",
		"openai":    "gpt-4o-mini",
		"anthropic": "claude-3.5-sonnet",
		"grok":      "grok-2",
		"gemini":    "gemini-1.5-flash",
	}
	stubBandProviders = map[string]string{
		domain.PolicySimple:   "ollama",
		domain.PolicyModerate: "openai",
		domain.PolicyComplex:  "anthropic",
	}
)

const (
	baselineModel = "gpt-4o"
	whatIfModel   = "claude-3.5-haiku"
)

// Stub имитирует бэкенд роутера в памяти: /health, /v1/metrics/summary, /v1/logs, /v1/run.
// Нужен для локальных демо (routerctl stub) и интеграционных тестов.
type Stub struct {
	mu     sync.Mutex
	runs   []domain.RunRecord
	nextID int64

	rng        *rand.Rand
	now        func() time.Time
	delay      time.Duration
	overloaded bool
	logger     *zap.Logger
}

func NewStub(rng *rand.Rand, logger *zap.Logger) *Stub {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Stub{
		rng:    rng,
		now:    time.Now,
		nextID: 1,
		logger: logger.Named("stub-backend"),
	}
}

// WithDelay включает имитацию задержки провайдера на /v1/run
func (s *Stub) WithDelay(d time.Duration) *Stub {
	s.delay = d
	return s
}

// SetOverloaded заставляет /v1/run отвечать 503 "overloaded"
func (s *Stub) SetOverloaded(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overloaded = v
}

var seedPrompts = []string{
	"hi",
	"Summarize the attached incident report in three bullets",
	"Translate the release notes to German",
	"Design a migration plan for moving billing onto the new ledger, including rollback steps, data backfill and a cutover checklist for the on-call team",
	"What is the capital of Portugal?",
	"Review this SQL query for injection risks and suggest parameterized alternatives",
}

// Seed наполняет журнал n запусками, равномерно разнесенными по последнему span.
func (s *Stub) Seed(n int, span time.Duration) {
	if n <= 0 {
		return
	}
	now := s.now()
	for i := 0; i < n; i++ {
		s.execute(seedPrompts[i%len(seedPrompts)], nil, "")

		ts := now.Add(-span + time.Duration(i+1)*span/time.Duration(n))
		s.mu.Lock()
		s.runs[len(s.runs)-1].Timestamp = ts.Unix()
		s.mu.Unlock()
	}
}

// Routes маршруты для Chi
func (s *Stub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get(PathHealth, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true, "service": "agenticlabs-api-stub"})
	})
	r.Get(PathMetricsSummary, s.handleSummary)
	r.Get(PathLogs, s.handleLogs)
	r.Post(PathRun, s.handleRun)
	return r
}

func (s *Stub) handleRun(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prompt          string                  `json:"prompt"`
		AgentID         string                  `json:"agent_id"`
		PolicyOverrides *domain.PolicyOverrides `json:"policy_overrides"`
		RouterMode      string                  `json:"router_mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid run payload", http.StatusUnprocessableEntity)
		return
	}
	if payload.Prompt == "" {
		http.Error(w, "prompt is required", http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	overloaded := s.overloaded
	s.mu.Unlock()
	if overloaded {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
		return
	}

	if err := s.sleep(r.Context()); err != nil {
		return
	}

	rec, output := s.execute(payload.Prompt, payload.PolicyOverrides, payload.RouterMode)

	writeJSON(w, map[string]any{
		"run_id": fmt.Sprintf("run_%d", rec.ID),
		"status": "ok",
		"output": output,
		"provenance": map[string]any{
			"provider": rec.Provider,
			"model":    rec.Model,
		},
		"metrics": map[string]any{
			"latency_ms": rec.LatencyMs,
			"cost_usd":   rec.CostUSD,
			"usage": map[string]any{
				"input_tokens":  rec.PromptTokens,
				"output_tokens": rec.CompletionTokens,
				"total_tokens":  rec.TotalTokens(),
			},
		},
	})
}

// execute маршрутизирует запуск и сохраняет запись журнала.
func (s *Stub) execute(prompt string, overrides *domain.PolicyOverrides, mode string) (domain.RunRecord, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	band := bandForPrompt(prompt)
	if overrides != nil && overrides.ForceBand != "" {
		band = overrides.ForceBand
	}
	provider := stubBandProviders[band]
	if provider == "" {
		provider = "openai"
	}
	if overrides != nil && overrides.ForceProvider != "" {
		provider = overrides.ForceProvider
	}
	model, ok := stubModels[provider]
	if !ok {
		model = provider + "-default"
	}

	promptTokens := int64(len(prompt)/4 + 1)
	completionTokens := int64(20 + s.rng.IntN(400))

	// Имитируем задержку 50-300мс в разрезе компонент
	routerMs := float64(2 + s.rng.IntN(8))
	providerMs := float64(50 + s.rng.IntN(250))
	processingMs := float64(1 + s.rng.IntN(5))
	if mode == "enhanced" {
		routerMs += 5
	}

	cost := costFor(model, promptTokens, completionTokens)
	baseline := costFor(baselineModel, promptTokens, completionTokens)
	score, tier := risk.Score(risk.Inputs{
		Band:            band,
		Provider:        provider,
		CostUSD:         cost,
		BaselineCostUSD: baseline,
		OverridesUsed:   overrides != nil && !overrides.IsEmpty(),
	})

	rec := domain.RunRecord{
		ID:                  s.nextID,
		Timestamp:           s.now().Unix(),
		Band:                band,
		Provider:            provider,
		Model:               model,
		LatencyMs:           routerMs + providerMs + processingMs,
		RouterLatencyMs:     domain.Float64(routerMs),
		ProviderLatencyMs:   domain.Float64(providerMs),
		ProcessingLatencyMs: domain.Float64(processingMs),
		PromptTokens:        promptTokens,
		CompletionTokens:    completionTokens,
		CostUSD:             cost,
		BaselineCostUSD:     baseline,
		SavingsUSD:          baseline - cost,
		AlriScore:           domain.Float64(score),
		AlriTier:            &tier,
	}
	s.nextID++
	s.runs = append(s.runs, rec)

	s.logger.Debug("stub run recorded",
		zap.Int64("id", rec.ID),
		zap.String("band", band),
		zap.String("provider", provider))

	return rec, fmt.Sprintf("[%s/%s] %d tokens routed via %s band", provider, model, completionTokens, band)
}

func (s *Stub) handleLogs(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}

	s.mu.Lock()
	// Свежие записи первыми
	items := make([]domain.RunRecord, 0, limit)
	total := len(s.runs)
	for i := total - 1 - offset; i >= 0 && len(items) < limit; i-- {
		items = append(items, s.runs[i])
	}
	s.mu.Unlock()

	writeJSON(w, domain.LogsPage{Total: int64(total), Offset: offset, Limit: limit, Items: items})
}

func (s *Stub) handleSummary(w http.ResponseWriter, r *http.Request) {
	days := domain.RangeDays(r.URL.Query().Get("range"))

	s.mu.Lock()
	runs := make([]domain.RunRecord, len(s.runs))
	copy(runs, s.runs)
	now := s.now()
	s.mu.Unlock()

	writeJSON(w, summarize(runs, days, now))
}

// summarize собирает агрегат по окну в days суток.
func summarize(runs []domain.RunRecord, days int, now time.Time) domain.MetricsSummary {
	start := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -(days - 1))

	sum := domain.MetricsSummary{
		ProviderBreakdown: []domain.ProviderStat{},
		Timeseries:        make([]domain.TimeseriesPoint, 0, days),
	}
	byDay := make(map[string]*domain.TimeseriesPoint, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(time.DateOnly)
		sum.Timeseries = append(sum.Timeseries, domain.TimeseriesPoint{Date: date})
	}
	for i := range sum.Timeseries {
		byDay[sum.Timeseries[i].Date] = &sum.Timeseries[i]
	}

	byProvider := map[string]*domain.ProviderStat{}
	var latency, baseline, whatIf, alriSum float64
	var scored, high int64
	for _, r := range runs {
		ts := time.Unix(r.Timestamp, 0).UTC()
		if ts.Before(start) {
			continue
		}
		sum.TotalRuns++
		sum.TotalCostUSD += r.CostUSD
		latency += r.LatencyMs
		baseline += r.BaselineCostUSD
		whatIf += costFor(whatIfModel, r.PromptTokens, r.CompletionTokens)

		p, ok := byProvider[r.Provider]
		if !ok {
			p = &domain.ProviderStat{Provider: r.Provider}
			byProvider[r.Provider] = p
		}
		p.Runs++
		p.TotalCostUSD += r.CostUSD
		p.AvgLatencyMs += r.LatencyMs // пока сумма, делим ниже

		if pt, ok := byDay[ts.Format(time.DateOnly)]; ok {
			pt.Requests++
			pt.CostUSD += r.CostUSD
		}

		if r.AlriScore != nil {
			scored++
			alriSum += *r.AlriScore
			if risk.IsHigh(risk.TierForScore(*r.AlriScore)) {
				high++
			}
		}
	}

	for _, p := range byProvider {
		p.AvgLatencyMs /= float64(p.Runs)
		sum.ProviderBreakdown = append(sum.ProviderBreakdown, *p)
	}
	sort.Slice(sum.ProviderBreakdown, func(i, j int) bool {
		return sum.ProviderBreakdown[i].Provider < sum.ProviderBreakdown[j].Provider
	})

	if sum.TotalRuns == 0 {
		return sum
	}

	sum.AvgLatencyMs = latency / float64(sum.TotalRuns)
	sum.CostPerRunUSD = domain.Float64(sum.TotalCostUSD / float64(sum.TotalRuns))
	sum.BaselineCostUSD = domain.Float64(baseline)
	sum.SavingsVsBaselineUSD = domain.Float64(baseline - sum.TotalCostUSD)
	if baseline > 0 {
		sum.SavingsPct = domain.Float64((baseline - sum.TotalCostUSD) / baseline * 100)
	} else {
		sum.SavingsPct = domain.Float64(0)
	}
	sum.WhatIfCostUSD = domain.Float64(whatIf)
	sum.WhatIfVsActualUSD = domain.Float64(whatIf - sum.TotalCostUSD)
	if scored > 0 {
		sum.AvgAlriScore = domain.Float64(alriSum / float64(scored))
		sum.HighAlriRunPct = domain.Float64(float64(high) / float64(scored) * 100)
	}
	return sum
}

func (s *Stub) sleep(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func bandForPrompt(prompt string) string {
	switch n := len(prompt); {
	case n < 80:
		return domain.PolicySimple
	case n < 400:
		return domain.PolicyModerate
	default:
		return domain.PolicyComplex
	}
}

func costFor(model string, promptTokens, completionTokens int64) float64 {
	p := stubPricing[model]
	c := float64(promptTokens)/1000*p.input + float64(completionTokens)/1000*p.output
	return math.Round(c*1e8) / 1e8
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
