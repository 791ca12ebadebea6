package engine

import (
	"context"
	"errors"
	"testing"
)

func TestResolveDirect(t *testing.T) {
	store := &fakeStore{
		rows: []RawCellRow{monthlyRow("B", "SALES", 2025, 3, "alice", "120,5", t1)},
		defs: map[string]*KpiDefinition{"SALES": directKpi("SALES", "EUR", YtdSum)},
	}
	r := newTestResolver(store)

	v, err := r.ResolveValue(context.Background(), "B", "SALES", Period{Year: 2025, Month: 3})
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || *v != 120.5 {
		t.Fatalf("value = %v, want 120.5", v)
	}

	absent, err := r.ResolveValue(context.Background(), "B", "SALES", Period{Year: 2025, Month: 4})
	if err != nil {
		t.Fatal(err)
	}
	if absent != nil {
		t.Fatalf("month without rows = %v, want nil", *absent)
	}
}

func TestResolvePercentageScaling(t *testing.T) {
	store := &fakeStore{
		rows: []RawCellRow{
			monthlyRow("B", "NUM", 2025, 3, "alice", "50", t1),
			monthlyRow("B", "DEN", 2025, 3, "alice", "200", t1),
		},
		defs: map[string]*KpiDefinition{
			"NUM":   directKpi("NUM", "", YtdSum),
			"DEN":   directKpi("DEN", "", YtdSum),
			"RATIO": ratioKpi("RATIO", "%", "NUM", "DEN"),
			"PLAIN": ratioKpi("PLAIN", "", "NUM", "DEN"),
		},
	}
	r := newTestResolver(store)
	p := Period{Year: 2025, Month: 3}

	pct, err := r.ResolveValue(context.Background(), "B", "RATIO", p)
	if err != nil {
		t.Fatal(err)
	}
	if pct == nil || *pct != 25 {
		t.Fatalf("unit %% ratio = %v, want 25 (0.25 scaled by 100)", pct)
	}

	plain, err := r.ResolveValue(context.Background(), "B", "PLAIN", p)
	if err != nil {
		t.Fatal(err)
	}
	if plain == nil || *plain != 0.25 {
		t.Fatalf("unitless ratio = %v, want 0.25", plain)
	}
}

func TestResolvePercentageGuards(t *testing.T) {
	store := &fakeStore{
		rows: []RawCellRow{
			monthlyRow("B", "NUM", 2025, 3, "alice", "50", t1),
			monthlyRow("B", "DEN", 2025, 3, "alice", "0", t1),
		},
		defs: map[string]*KpiDefinition{
			"NUM":   directKpi("NUM", "", YtdSum),
			"DEN":   directKpi("DEN", "", YtdSum),
			"RATIO": ratioKpi("RATIO", "%", "NUM", "DEN"),
		},
	}
	r := newTestResolver(store)
	ctx := context.Background()

	// denominator exactly zero: nil, never Inf or NaN
	v, err := r.ResolveValue(ctx, "B", "RATIO", Period{Year: 2025, Month: 3})
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("zero-denominator ratio = %v, want nil", *v)
	}

	// absent operand: nil, not a manufactured 0%
	v, err = r.ResolveValue(ctx, "B", "RATIO", Period{Year: 2025, Month: 4})
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("absent-operand ratio = %v, want nil", *v)
	}
}

func TestResolveTargetOnlyKpi(t *testing.T) {
	noData := &KpiDefinition{KpiID: "T1", CalculationType: CalcTarget, YtdCalc: YtdSum}
	withData := &KpiDefinition{KpiID: "T2", CalculationType: CalcTarget, HasTargetData: true, YtdCalc: YtdSum}
	store := &fakeStore{
		rows: []RawCellRow{
			monthlyRow("B", "T1", 2025, 3, "alice", "99", t1),
			monthlyRow("B", "T2", 2025, 3, "alice", "42", t1),
		},
		defs: map[string]*KpiDefinition{"T1": noData, "T2": withData},
	}
	r := newTestResolver(store)
	ctx := context.Background()

	// without has_target_data the KPI has no monthly cells at all, even if
	// stray rows exist
	v, err := r.ResolveValue(ctx, "B", "T1", Period{Year: 2025, Month: 3})
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("target-only kpi = %v, want nil", *v)
	}

	v, err = r.ResolveValue(ctx, "B", "T2", Period{Year: 2025, Month: 3})
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || *v != 42 {
		t.Fatalf("target kpi with data = %v, want 42", v)
	}
}

func TestResolveDefinitionErrors(t *testing.T) {
	num := "NUM"
	store := &fakeStore{
		defs: map[string]*KpiDefinition{
			"BROKEN": {KpiID: "BROKEN", CalculationType: CalcPercentage, NumeratorKpiID: &num},
		},
	}
	r := newTestResolver(store)
	ctx := context.Background()

	var defErr *DefinitionError

	_, err := r.ResolveValue(ctx, "B", "BROKEN", Period{Year: 2025, Month: 1})
	if !errors.As(err, &defErr) {
		t.Fatalf("percentage kpi missing denominator: err = %v, want DefinitionError", err)
	}

	_, err = r.ResolveValue(ctx, "B", "MISSING", Period{Year: 2025, Month: 1})
	if !errors.As(err, &defErr) {
		t.Fatalf("unknown kpi: err = %v, want DefinitionError", err)
	}
}

func TestResolveDepthGuard(t *testing.T) {
	// a chain deeper than percentage-on-percentage-on-direct trips the guard
	store := &fakeStore{
		defs: map[string]*KpiDefinition{
			"A": ratioKpi("A", "", "B", "B"),
			"B": ratioKpi("B", "", "C", "C"),
			"C": ratioKpi("C", "", "A", "A"),
		},
	}
	r := newTestResolver(store)

	var defErr *DefinitionError
	_, err := r.ResolveValue(context.Background(), "B", "A", Period{Year: 2025, Month: 1})
	if !errors.As(err, &defErr) {
		t.Fatalf("err = %v, want DefinitionError from depth guard", err)
	}
}

func TestResolveMonthlyFoldsDailyWinners(t *testing.T) {
	store := &fakeStore{
		rows: []RawCellRow{
			dailyRow("B", "K", 2025, 3, 6, "alice", "10", t1),
			dailyRow("B", "K", 2025, 3, 6, "bob", "15", t2),
			dailyRow("B", "K", 2025, 3, 7, "alice", "5", t1),
		},
		defs: map[string]*KpiDefinition{
			"K":  directKpi("K", "", YtdSum),
			"KA": directKpi("KA", "", YtdAverage),
		},
	}
	r := newTestResolver(store)
	ctx := context.Background()

	// no monthly row: the month is the fold of reconciled daily winners
	v, err := r.ResolveValue(ctx, "B", "K", Period{Year: 2025, Month: 3})
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || *v != 20 {
		t.Fatalf("monthly fold = %v, want 20 (15 winner on day 6 + 5 on day 7)", v)
	}

	// an explicit monthly row takes precedence over the daily fold
	store.rows = append(store.rows, monthlyRow("B", "K", 2025, 3, "carol", "99", t2))
	r2 := newTestResolver(store)
	v, err = r2.ResolveValue(ctx, "B", "K", Period{Year: 2025, Month: 3})
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || *v != 99 {
		t.Fatalf("monthly row should win over daily fold: got %v", v)
	}
}
