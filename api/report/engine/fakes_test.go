package engine

import (
	"context"
	"time"
)

// fakeStore implements CellStore and DefinitionStore over in-memory rows,
// honoring the CellFilter day/month semantics the pg store implements.
type fakeStore struct {
	rows    []RawCellRow
	defs    map[string]*KpiDefinition
	err     error
	selects int
}

func (f *fakeStore) SelectCellRows(_ context.Context, filter CellFilter) ([]RawCellRow, error) {
	f.selects++
	if f.err != nil {
		return nil, f.err
	}
	var out []RawCellRow
	for _, r := range f.rows {
		if r.BrandID != filter.BrandID || r.Year != filter.Year {
			continue
		}
		if filter.Month > 0 && r.Month != filter.Month {
			continue
		}
		switch {
		case filter.Day == 0 && r.Day != 0:
			continue
		case filter.Day > 0 && r.Day != filter.Day:
			continue
		case filter.Day == DayAll && r.Day == 0:
			continue
		}
		if len(filter.KpiIDs) > 0 && !containsString(filter.KpiIDs, r.KpiID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) SelectKpiDefinition(_ context.Context, kpiID string) (*KpiDefinition, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.defs[kpiID], nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func directKpi(id, unit, ytdCalc string) *KpiDefinition {
	return &KpiDefinition{
		KpiID:           id,
		Name:            id,
		Unit:            unit,
		CalculationType: CalcDirect,
		YtdCalc:         ytdCalc,
	}
}

func ratioKpi(id, unit, num, den string) *KpiDefinition {
	return &KpiDefinition{
		KpiID:            id,
		Name:             id,
		Unit:             unit,
		CalculationType:  CalcPercentage,
		NumeratorKpiID:   &num,
		DenominatorKpiID: &den,
		YtdCalc:          YtdAverage,
	}
}

func monthlyRow(brand, kpi string, year, month int, user, value string, at time.Time) RawCellRow {
	return RawCellRow{
		CellKey:   CellKey{BrandID: brand, KpiID: kpi, Period: Period{Year: year, Month: month}},
		UserID:    user,
		Value:     value,
		UpdatedAt: at,
	}
}

func dailyRow(brand, kpi string, year, month, day int, user, value string, at time.Time) RawCellRow {
	return RawCellRow{
		CellKey:   CellKey{BrandID: brand, KpiID: kpi, Period: Period{Year: year, Month: month, Day: day}},
		UserID:    user,
		Value:     value,
		UpdatedAt: at,
	}
}

func newTestResolver(store *fakeStore) *Resolver {
	return NewResolver(store, NewAccessor(store))
}

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
	}
}
