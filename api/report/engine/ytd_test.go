package engine

import (
	"context"
	"testing"
	"time"
)

func newTestAggregator(store *fakeStore, year int, month time.Month) *Aggregator {
	a := NewAggregator(newTestResolver(store))
	a.Clock = fixedClock(year, month)
	return a
}

func TestAggregateYtdSum(t *testing.T) {
	store := &fakeStore{
		rows: []RawCellRow{
			monthlyRow("B", "K", 2025, 1, "alice", "10", t1),
			monthlyRow("B", "K", 2025, 2, "alice", "20", t1),
			monthlyRow("B", "K", 2025, 3, "alice", "30", t1),
		},
		defs: map[string]*KpiDefinition{"K": directKpi("K", "", YtdSum)},
	}
	a := newTestAggregator(store, 2025, time.June)

	got, err := a.AggregateYtd(context.Background(), "B", "K", 2025)
	if err != nil {
		t.Fatal(err)
	}
	if got != 60 {
		t.Fatalf("ytd sum = %v, want 60", got)
	}
}

func TestAggregateYtdWindowExcludesFutureMonths(t *testing.T) {
	store := &fakeStore{
		rows: []RawCellRow{
			monthlyRow("B", "K", 2025, 3, "alice", "30", t1),
			// data beyond the current month must never be included
			monthlyRow("B", "K", 2025, 7, "alice", "1000", t1),
			monthlyRow("B", "K", 2025, 12, "alice", "1000", t1),
		},
		defs: map[string]*KpiDefinition{"K": directKpi("K", "", YtdSum)},
	}
	a := newTestAggregator(store, 2025, time.June)

	got, err := a.AggregateYtd(context.Background(), "B", "K", 2025)
	if err != nil {
		t.Fatal(err)
	}
	if got != 30 {
		t.Fatalf("ytd = %v, want 30 (months 7 and 12 are outside the elapsed window)", got)
	}
}

func TestAggregateYtdPastYearCoversTwelveMonths(t *testing.T) {
	store := &fakeStore{
		rows: []RawCellRow{
			monthlyRow("B", "K", 2024, 11, "alice", "40", t1),
			monthlyRow("B", "K", 2024, 12, "alice", "60", t1),
		},
		defs: map[string]*KpiDefinition{"K": directKpi("K", "", YtdSum)},
	}
	a := newTestAggregator(store, 2025, time.February)

	got, err := a.AggregateYtd(context.Background(), "B", "K", 2024)
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Fatalf("past-year ytd = %v, want 100 (all 12 months elapse)", got)
	}
}

func TestAggregateYtdAverageSkipsAbsentMonths(t *testing.T) {
	store := &fakeStore{
		rows: []RawCellRow{
			monthlyRow("B", "K", 2025, 1, "alice", "10", t1),
			monthlyRow("B", "K", 2025, 4, "alice", "30", t1),
		},
		defs: map[string]*KpiDefinition{"K": directKpi("K", "", YtdAverage)},
	}
	a := newTestAggregator(store, 2025, time.June)

	got, err := a.AggregateYtd(context.Background(), "B", "K", 2025)
	if err != nil {
		t.Fatal(err)
	}
	// mean over the two months with data, not over six elapsed months
	if got != 20 {
		t.Fatalf("ytd average = %v, want 20", got)
	}
}

func TestAggregateYtdEmptyIsZero(t *testing.T) {
	store := &fakeStore{
		defs: map[string]*KpiDefinition{"K": directKpi("K", "", YtdAverage)},
	}
	a := newTestAggregator(store, 2025, time.June)

	got, err := a.AggregateYtd(context.Background(), "B", "K", 2025)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("empty aggregate = %v, want the defined 0 convention", got)
	}
}
