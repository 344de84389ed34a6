package risk

import (
	"slices"

	"github.com/xela07ax/agenticlabs-console/internal/domain"
)

// TierUnscored — запуски без ALRI
const TierUnscored = "unscored"

// TierShare — доля запусков в тире
type TierShare struct {
	Tier string  `json:"tier"`
	Runs int     `json:"runs"`
	Pct  float64 `json:"pct"`
}

var tierOrder = []domain.AlriTier{
	domain.TierRedCritical,
	domain.TierOrangeHigh,
	domain.TierYellowMedium,
	domain.TierGreenLow,
}

// TierShares распределяет записи по тирам в фиксированном порядке: от red_critical к green_low,
// затем unscored. Тир без известной метки выводится из балла.
func TierShares(records []domain.RunRecord) []TierShare {
	counts := make(map[string]int, len(tierOrder)+1)
	for _, r := range records {
		counts[tierOf(r)]++
	}

	shares := make([]TierShare, 0, len(tierOrder)+1)
	for _, t := range tierOrder {
		shares = append(shares, share(string(t), counts[string(t)], len(records)))
	}
	return append(shares, share(TierUnscored, counts[TierUnscored], len(records)))
}

// tierOf: известная метка, иначе тир по баллу, иначе unscored
func tierOf(r domain.RunRecord) string {
	if r.AlriTier != nil && slices.Contains(tierOrder, *r.AlriTier) {
		return string(*r.AlriTier)
	}
	if r.AlriScore != nil {
		return string(TierForScore(*r.AlriScore))
	}
	return TierUnscored
}

func share(tier string, runs, total int) TierShare {
	s := TierShare{Tier: tier, Runs: runs}
	if total > 0 {
		s.Pct = float64(runs) / float64(total) * 100
	}
	return s
}
