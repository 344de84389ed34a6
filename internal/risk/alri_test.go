package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

func TestTierForScoreThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.AlriTier
	}{
		{0, domain.TierGreenLow},
		{2.5, domain.TierGreenLow},
		{2.6, domain.TierYellowMedium},
		{5.0, domain.TierYellowMedium},
		{7.5, domain.TierOrangeHigh},
		{7.6, domain.TierRedCritical},
		{10, domain.TierRedCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForScore(tt.score), "score %.1f", tt.score)
	}
	assert.True(t, IsHigh(domain.TierOrangeHigh))
	assert.False(t, IsHigh(domain.TierYellowMedium))
}

func TestScore(t *testing.T) {
	t.Run("cheap local simple run is low risk", func(t *testing.T) {
		score, tier := Score(Inputs{Band: "simple", Provider: "ollama", CostUSD: 0, BaselineCostUSD: 0.01})
		assert.Equal(t, 0.0, score)
		assert.Equal(t, domain.TierGreenLow, tier)
	})

	t.Run("forced complex openai run", func(t *testing.T) {
		// C=2 (ratio 1), X=2, G=3, S=1, B=2 -> 2+2+4.5+1.5+4 = 14 -> 6.7
		score, tier := Score(Inputs{Band: "complex", Provider: "openai", CostUSD: 0.01, BaselineCostUSD: 0.01, OverridesUsed: true})
		assert.Equal(t, 6.7, score)
		assert.Equal(t, domain.TierOrangeHigh, tier)
	})

	t.Run("score stays within range", func(t *testing.T) {
		score, _ := Score(Inputs{Band: "complex", Provider: "openai", CostUSD: 100, BaselineCostUSD: 1, OverridesUsed: true})
		assert.LessOrEqual(t, score, 10.0)
		assert.GreaterOrEqual(t, score, 0.0)
	})
}

func TestTierShares(t *testing.T) {
	orange := domain.TierOrangeHigh
	records := []domain.RunRecord{
		{AlriScore: domain.Float64(7), AlriTier: &orange},
		{AlriScore: domain.Float64(1)}, // тир выводится из балла
		{AlriScore: domain.Float64(9.1)},
		{},
	}
	shares := TierShares(records)
	require.Len(t, shares, 5)

	got := map[string]int{}
	var pct float64
	for _, s := range shares {
		got[s.Tier] = s.Runs
		pct += s.Pct
	}
	assert.Equal(t, map[string]int{"red_critical": 1, "orange_high": 1, "yellow_medium": 0, "green_low": 1, TierUnscored: 1}, got)
	assert.InDelta(t, 100, pct, 1e-9)
	assert.Equal(t, "red_critical", shares[0].Tier)
	assert.Equal(t, TierUnscored, shares[4].Tier)

	for _, s := range TierShares(nil) {
		assert.Zero(t, s.Pct)
	}
}

func TestTierSharesUnknownLabel(t *testing.T) {
	bogus := domain.AlriTier("purple_extreme")
	records := []domain.RunRecord{
		{AlriScore: domain.Float64(4), AlriTier: &bogus}, // тир по баллу
		{AlriTier: &bogus},
	}
	shares := TierShares(records)

	got := map[string]int{}
	var pct float64
	for _, s := range shares {
		got[s.Tier] = s.Runs
		pct += s.Pct
	}
	assert.Equal(t, 1, got["yellow_medium"])
	assert.Equal(t, 1, got[TierUnscored])
	assert.NotContains(t, got, "purple_extreme")
	assert.InDelta(t, 100, pct, 1e-9)
}
