package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/agenticlabs-console/internal/analytics"
	"github.com/xela07ax/agenticlabs-console/internal/domain"
	"github.com/xela07ax/agenticlabs-console/internal/risk"
	"github.com/xela07ax/agenticlabs-console/internal/table"
)

func TestThemeForIsTotal(t *testing.T) {
	want := map[string]LayoutKind{
		"auto":      LayoutClassicChat,
		"openai":    LayoutSplitRight,
		"anthropic": LayoutStacked,
		"grok":      LayoutConsole,
		"gemini":    LayoutSplitRight,
		"ollama":    LayoutClassicChat,
	}
	for _, p := range Providers {
		assert.Equal(t, want[p], ThemeFor(p).Layout, p)
	}
	assert.Equal(t, ProviderAuto, ThemeFor("mistral").Provider)
	assert.Equal(t, ProviderAuto, ThemeFor("").Provider)
	assert.Equal(t, "openai", ThemeFor(" OpenAI ").Provider)
}

func TestSelectProvider(t *testing.T) {
	tests := []struct {
		selected, result, want string
	}{
		{"anthropic", "openai", "anthropic"},
		{"auto", "openai", "openai"},
		{"", "Gemini", "gemini"},
		{"auto", "unknown", ProviderAuto},
		{"bogus", "", ProviderAuto},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SelectProvider(tt.selected, tt.result), "%s/%s", tt.selected, tt.result)
	}
}

func TestRunRendersEveryLayout(t *testing.T) {
	total := int64(42)
	result := &domain.RunResult{
		Output:    "routed answer",
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		Band:      "complex",
		LatencyMs: 312.5,
		Cost:      domain.RunCost{TotalUSD: 0.00042},
		Usage:     &domain.Usage{TotalTokens: &total},
	}
	for _, p := range Providers {
		out := Run(ThemeFor(p), RunView{Prompt: "hello router", Result: result}, 80)
		assert.Contains(t, out, "hello router", p)
		assert.Contains(t, out, "routed answer", p)
	}

	out := Run(ThemeFor("grok"), RunView{Prompt: "x", Result: result}, 80)
	assert.Contains(t, out, "tokens=42")

	errOut := Run(ThemeFor("auto"), RunView{Prompt: "x", Err: "overloaded"}, 80)
	assert.Contains(t, errOut, "overloaded")
}

func TestOverviewRender(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	o := analytics.Derive(analytics.SyntheticSummary(domain.Range7d, now, nil))
	o.Range = domain.Range7d
	o.UsedFallback = true
	o.Warning = "backend down"

	out := Overview(o, 120)
	assert.Contains(t, out, "Router overview")
	assert.Contains(t, out, "backend down")
	assert.Contains(t, out, "openai")
	assert.Contains(t, out, "requests/day")

	empty := Overview(analytics.Derive(domain.MetricsSummary{}), 80)
	assert.Contains(t, empty, analytics.EmptyMessage)
}

func TestLineChartSinglePoint(t *testing.T) {
	assert.NotEmpty(t, LineChart([]float64{5}, 30, 3, "one day"))
	assert.Contains(t, LineChart(nil, 30, 3, ""), "No data")
}

func TestLogsTable(t *testing.T) {
	recs := []domain.RunRecord{
		{ID: 1, Band: "simple", Provider: "ollama", Model: "llama3", LatencyMs: 100, SavingsUSD: 0.001},
		{ID: 2, Band: "complex", Provider: "openai", Model: "gpt-4o", LatencyMs: 900, SavingsUSD: -0.002, AlriScore: domain.Float64(8)},
	}
	sort := table.SortState{Key: table.KeyLatency, Dir: table.Desc}
	out := LogsTable(table.Rows(sort.Apply(recs), time.UTC), sort)

	assert.Contains(t, out, "LATENCY ↓")
	assert.Contains(t, out, "COMPLEX")
	assert.Less(t, strings.Index(out, "gpt-4o"), strings.Index(out, "llama3"), "desc latency puts the slow run first")

	assert.Contains(t, LogsTable(nil, sort), "No runs")

	legend := TierLegend(risk.TierShares(recs))
	assert.Contains(t, legend, "red critical 1")
	assert.Contains(t, legend, "unscored 1")

	require.Contains(t, PageFooter(0, 2, 2, sort), "1-2 of 2")
}
