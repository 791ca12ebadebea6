package engine

import (
	"context"
	"time"
)

// Aggregator folds a KPI's resolved monthly values into a year-to-date
// figure. Clock is swappable so the elapsed-window boundary is testable.
type Aggregator struct {
	resolver *Resolver
	Clock    func() time.Time
}

func NewAggregator(resolver *Resolver) *Aggregator {
	return &Aggregator{resolver: resolver, Clock: time.Now}
}

// elapsedMonths is the inclusive month boundary for a year: all 12 months
// for a past year, the current calendar month for the current year, nothing
// for a future year. Future months of the current year are never included.
func (a *Aggregator) elapsedMonths(year int) int {
	now := a.Clock()
	switch {
	case year < now.Year():
		return 12
	case year > now.Year():
		return 0
	default:
		return int(now.Month())
	}
}

// AggregateYtd resolves months 1..boundary and folds the present values
// under the KPI's ytd_calc mode. Absent months are skipped, not zeroed, so
// an average only covers months that actually have data. An empty sequence
// aggregates to 0 by convention: the figure feeds displays that default to
// zero.
func (a *Aggregator) AggregateYtd(ctx context.Context, brandID, kpiID string, year int) (float64, error) {
	def, err := a.resolver.Definition(ctx, kpiID)
	if err != nil {
		return 0, err
	}

	boundary := a.elapsedMonths(year)
	values := make([]float64, 0, boundary)
	for m := 1; m <= boundary; m++ {
		v, err := a.resolver.ResolveValue(ctx, brandID, kpiID, Period{Year: year, Month: m})
		if err != nil {
			return 0, err
		}
		if v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return 0, nil
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	if def.YtdCalc == YtdAverage {
		return sum / float64(len(values)), nil
	}
	return sum, nil
}
