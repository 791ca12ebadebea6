package engine

import "testing"

func TestComputeProgress(t *testing.T) {
	target := func(v float64) *float64 { return &v }

	cases := []struct {
		name       string
		cumulative float64
		target     *float64
		percent    *int
		tier       string
	}{
		{"amber at 80", 80, target(100), intPtr(80), TierAmber},
		{"green over 100", 120, target(100), intPtr(120), TierGreen},
		{"green at exactly 100", 100, target(100), intPtr(100), TierGreen},
		{"red below 80", 79, target(100), intPtr(79), TierRed},
		{"amber just under 100", 99, target(100), intPtr(99), TierAmber},
		{"zero target is neutral", 50, target(0), nil, TierNeutral},
		{"negative target is neutral", 50, target(-10), nil, TierNeutral},
		{"missing target is neutral", 50, nil, nil, TierNeutral},
		{"negative cumulative floors at zero", -25, target(100), intPtr(0), TierRed},
		{"rounds to nearest", 33.4, target(100), intPtr(33), TierRed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ComputeProgress(c.cumulative, c.target)
			if got.Tier != c.tier {
				t.Errorf("tier = %s, want %s", got.Tier, c.tier)
			}
			switch {
			case c.percent == nil && got.Percent != nil:
				t.Errorf("percent = %d, want nil", *got.Percent)
			case c.percent != nil && got.Percent == nil:
				t.Errorf("percent = nil, want %d", *c.percent)
			case c.percent != nil && *got.Percent != *c.percent:
				t.Errorf("percent = %d, want %d", *got.Percent, *c.percent)
			}
		})
	}
}

func intPtr(v int) *int { return &v }
