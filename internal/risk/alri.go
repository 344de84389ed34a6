package risk

import (
	"math"
	"strings"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

// Пороги тиров ALRI (включительно)
const (
	thresholdGreen  = 2.5
	thresholdYellow = 5.0
	thresholdOrange = 7.5
)

// TierForScore переводит балл 0..10 в категорию.
func TierForScore(score float64) domain.AlriTier {
	switch {
	case score <= thresholdGreen:
		return domain.TierGreenLow
	case score <= thresholdYellow:
		return domain.TierYellowMedium
	case score <= thresholdOrange:
		return domain.TierOrangeHigh
	default:
		return domain.TierRedCritical
	}
}

// IsHigh — тиры, которые считаются "высоким риском" в high_alri_run_pct
func IsHigh(t domain.AlriTier) bool {
	return t == domain.TierOrangeHigh || t == domain.TierRedCritical
}

// Inputs — сигналы одного запуска для расчета ALRI
type Inputs struct {
	Band            string // simple, moderate, complex
	Provider        string
	CostUSD         float64
	BaselineCostUSD float64
	OverridesUsed   bool
}

// Score считает ALRI v2: взвешенная сумма давления по стоимости (C), сложности (X),
// управляемости провайдера (G), безопасности (S) и влиянию на бизнес (B), нормированная в 0..10.
func Score(in Inputs) (float64, domain.AlriTier) {
	band := strings.ToLower(in.Band)

	var ratio float64
	if in.BaselineCostUSD > 0 {
		ratio = in.CostUSD / in.BaselineCostUSD
	}
	var c float64
	switch {
	case ratio <= 0.25:
		c = 0
	case ratio <= 0.75:
		c = 1
	case ratio <= 1.25:
		c = 2
	default:
		c = 3
	}

	x := 1.0
	switch band {
	case domain.PolicySimple:
		x = 0
	case domain.PolicyComplex:
		x = 2
	}

	var g float64
	switch {
	case in.Provider == "ollama" && band == domain.PolicySimple:
		g = 0
	case in.Provider == "ollama":
		g = 1
	case in.Provider == "openai" && band == domain.PolicySimple:
		g = 1
	case in.Provider == "openai" && band == domain.PolicyModerate:
		g = 2
	default:
		g = 3
	}

	var s float64
	if in.OverridesUsed {
		s = 1
	}

	var b float64
	switch {
	case band == domain.PolicyComplex && in.Provider == "openai":
		b = 2
	case band == domain.PolicyModerate:
		b = 1
	}

	raw := 1.0*c + 1.0*x + 1.5*g + 1.5*s + 2.0*b
	score := math.Round(raw/21.0*10.0*10) / 10
	score = math.Max(0, math.Min(10, score))

	return score, TierForScore(score)
}
