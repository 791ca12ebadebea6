package engine

import "math"

// Progress tiers for target attainment.
const (
	TierGreen   = "green"
	TierAmber   = "amber"
	TierRed     = "red"
	TierNeutral = "neutral"
)

// Progress is a cumulative figure expressed against a target. Percent is
// nil when no meaningful target exists.
type Progress struct {
	Percent *int   `json:"percent"`
	Tier    string `json:"tier"`
}

// ComputeProgress turns a cumulative value and a target into a bounded
// percentage and a tier. A missing or non-positive target is neutral. The
// percent is floored at 0 but deliberately not capped at 100; progress-bar
// fill widths clamp on the rendering side.
func ComputeProgress(cumulative float64, target *float64) Progress {
	if target == nil || *target <= 0 {
		return Progress{Tier: TierNeutral}
	}

	pct := int(math.Round(math.Max(0, cumulative / *target) * 100))
	tier := TierRed
	switch {
	case pct >= 100:
		tier = TierGreen
	case pct >= 80:
		tier = TierAmber
	}
	return Progress{Percent: &pct, Tier: tier}
}
