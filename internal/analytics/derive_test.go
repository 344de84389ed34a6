package analytics

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

func TestDeriveZeroRuns(t *testing.T) {
	o := Derive(domain.MetricsSummary{})

	assert.True(t, o.Empty)
	assert.Equal(t, EmptyMessage, o.EmptyMessage)
	assert.Zero(t, o.CostPerRunUSD)
	assert.Equal(t, "$0.00", o.Display.CostPerRun)
	assert.Equal(t, Unavailable, o.Display.Savings)
	assert.Equal(t, Unavailable, o.Display.WhatIf)
	assert.Equal(t, Unavailable, o.Display.HighAlri)
	assert.Equal(t, Unavailable, o.Display.AvgAlri)
	assert.Nil(t, o.WhatIfDeltaUSD)
	assert.Nil(t, o.RiskShares)
}

func TestCostPerRunChain(t *testing.T) {
	s := domain.MetricsSummary{TotalRuns: 4, TotalCostUSD: 2}
	assert.Equal(t, 0.5, CostPerRun(s))

	s.CostPerRunUSD = domain.Float64(0.75)
	assert.Equal(t, 0.75, CostPerRun(s), "backend value takes precedence")
}

func TestSavingsDisplay(t *testing.T) {
	s := domain.MetricsSummary{
		BaselineCostUSD:      domain.Float64(10),
		SavingsVsBaselineUSD: domain.Float64(4.256),
		SavingsPct:           domain.Float64(42.56),
	}
	assert.Equal(t, "$4.26 (42.6%)", SavingsDisplay(s))

	s.SavingsPct = nil
	assert.Equal(t, Unavailable, SavingsDisplay(s))
}

func TestWhatIfChain(t *testing.T) {
	s := domain.MetricsSummary{TotalCostUSD: 10}
	assert.Nil(t, WhatIfDelta(s), "no what-if estimate, no delta")

	s.WhatIfCostUSD = domain.Float64(12.5)
	require.NotNil(t, WhatIfDelta(s))
	assert.InDelta(t, 2.5, *WhatIfDelta(s), 1e-9)
	assert.Equal(t, "$12.50 (+$2.50 vs actual)", WhatIfDisplay(s.WhatIfCostUSD, WhatIfDelta(s)))

	s.WhatIfVsActualUSD = domain.Float64(-1)
	assert.Equal(t, -1.0, *WhatIfDelta(s), "backend delta takes precedence")
	assert.Equal(t, "$12.50 (-$1.00 vs actual)", WhatIfDisplay(s.WhatIfCostUSD, WhatIfDelta(s)))
}

func TestAlriAndRiskShares(t *testing.T) {
	s := domain.MetricsSummary{AvgAlriScore: domain.Float64(3.44), HighAlriRunPct: domain.Float64(12.5)}

	assert.Equal(t, "3.4 / 10 (yellow medium)", AlriDisplay(s.AvgAlriScore))
	shares := RiskShares(s)
	require.Len(t, shares, 2)
	assert.Equal(t, RiskShare{Group: "high", Pct: 12.5}, shares[0])
	assert.Equal(t, RiskShare{Group: "other", Pct: 87.5}, shares[1])

	o := Derive(s)
	assert.Equal(t, "12.5%", o.Display.HighAlri)
}

func TestProviderShares(t *testing.T) {
	s := domain.MetricsSummary{
		TotalRuns: 4,
		ProviderBreakdown: []domain.ProviderStat{
			{Provider: "openai", Runs: 3, TotalCostUSD: 0.3},
			{Provider: "ollama", Runs: 1, TotalCostUSD: 0},
		},
	}
	shares := ProviderShares(s)
	require.Len(t, shares, 2)
	assert.InDelta(t, 75, shares[0].RunSharePct, 1e-9)
	assert.InDelta(t, 100, shares[0].CostSharePct, 1e-9)
	assert.InDelta(t, 0, shares[1].CostSharePct, 1e-9)

	zero := ProviderShares(domain.MetricsSummary{ProviderBreakdown: []domain.ProviderStat{{Provider: "openai"}}})
	assert.Zero(t, zero[0].RunSharePct)
	assert.Zero(t, zero[0].CostSharePct)
}

func TestDeriveKeepsFullPrecision(t *testing.T) {
	s := domain.MetricsSummary{TotalRuns: 3, TotalCostUSD: 0.1}
	o := Derive(s)
	assert.InDelta(t, 0.1/3, o.CostPerRunUSD, 1e-15)
	assert.Equal(t, "$0.03", o.Display.CostPerRun)
	assert.Equal(t, s, o.Summary)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$0.00", USD(0))
	assert.Equal(t, "$1.50", USD(1.5))
	assert.Equal(t, "$0.000420", USD(0.00042))
	assert.Equal(t, "-$0.30", USD(-0.3))
	assert.Equal(t, "+$0.00", SignedUSD(0))
	assert.Equal(t, "0.0", Fixed(-0.0001, 1))
	assert.Equal(t, "1,823", Count(1823))
	assert.Equal(t, "-1,000,000", Count(-1000000))
	assert.Equal(t, "1.9M", Compact(1_920_000))
	assert.Equal(t, "1.5k", Compact(1500))
	assert.Equal(t, "812.4 ms", Millis(812.44))
}

func TestSyntheticSummaryInvariants(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	for _, rng := range []string{domain.Range24h, domain.Range7d, domain.Range30d, "bogus"} {
		t.Run(rng, func(t *testing.T) {
			s := SyntheticSummary(rng, now, rand.New(rand.NewPCG(7, 7)))

			require.NoError(t, s.Validate())
			require.Len(t, s.Timeseries, domain.RangeDays(rng))
			assert.Equal(t, "2026-10-19", s.Timeseries[len(s.Timeseries)-1].Date)

			var perDay, perProvider int64
			for _, pt := range s.Timeseries {
				perDay += pt.Requests
			}
			for _, p := range s.ProviderBreakdown {
				perProvider += p.Runs
			}
			assert.Equal(t, s.TotalRuns, perDay)
			assert.Equal(t, s.TotalRuns, perProvider)
			assert.Len(t, s.ProviderBreakdown, 4)
		})
	}
}

func TestSyntheticSummaryNilRng(t *testing.T) {
	s := SyntheticSummary(domain.Range7d, time.Now(), nil)
	require.NoError(t, s.Validate())
}
