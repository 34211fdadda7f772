package pipeline

import (
	"math"

	"github.com/sells-group/venture-cli/internal/model"
)

// Dimension weights for the composite opportunity score. Sum is 1.0.
const (
	weightPainSeverity          = 0.25
	weightMarketGap             = 0.20
	weightMVPFeasibility        = 0.15
	weightCompetitionDensity    = 0.15
	weightMonetizationPotential = 0.10
	weightCommunityDemand       = 0.10
	weightStartupSaturation     = 0.05
)

// AggregateScore combines the seven dimension scores into a single
// opportunity score in [0,100]. Deterministic: round half away from
// zero, then clamp.
func AggregateScore(b model.ScoreBreakdown) int {
	weighted := float64(b.PainSeverity)*weightPainSeverity +
		float64(b.MarketGap)*weightMarketGap +
		float64(b.MVPFeasibility)*weightMVPFeasibility +
		float64(b.CompetitionDensity)*weightCompetitionDensity +
		float64(b.MonetizationPotential)*weightMonetizationPotential +
		float64(b.CommunityDemand)*weightCommunityDemand +
		float64(b.StartupSaturation)*weightStartupSaturation

	score := int(math.Round(weighted))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
