package engine

import (
	"context"
	"testing"
	"time"
)

// Two users submit daily values for the same cell; the later write wins the
// reconciliation, the month folds to that winner, and the YTD sum over the
// elapsed window carries it through to a progress figure.
func TestDailySubmissionToProgressScenario(t *testing.T) {
	store := &fakeStore{
		rows: []RawCellRow{
			dailyRow("B", "K", 2025, 3, 6, "alice", "10", t1),
			dailyRow("B", "K", 2025, 3, 6, "bob", "15", t2),
		},
		defs: map[string]*KpiDefinition{"K": directKpi("K", "", YtdSum)},
	}
	cells := NewAccessor(store)
	resolver := NewResolver(store, cells)
	agg := NewAggregator(resolver)
	agg.Clock = fixedClock(2025, time.March)
	ctx := context.Background()

	cell, err := cells.FetchReconciledCell(ctx, "B", "K", Period{Year: 2025, Month: 3, Day: 6})
	if err != nil {
		t.Fatal(err)
	}
	if cell == nil || cell.Value != 15 {
		t.Fatalf("reconciled cell = %+v, want the later write 15", cell)
	}

	ytd, err := agg.AggregateYtd(ctx, "B", "K", 2025)
	if err != nil {
		t.Fatal(err)
	}
	if ytd != 15 {
		t.Fatalf("ytd = %v, want 15 (march is the only month with data, one day only)", ytd)
	}

	target := 20.0
	progress := ComputeProgress(ytd, &target)
	if progress.Percent == nil || *progress.Percent != 75 || progress.Tier != TierRed {
		t.Fatalf("progress = %+v, want 75%% red", progress)
	}
}
