package engine

import (
	"context"
	"log"
	"sync"
)

// CellStore is the read primitive the reconciliation accessor runs on. It
// returns every contributor's row matching the filter, with no user_id
// filtering: all rows for a cell are visible to every authorized viewer.
type CellStore interface {
	SelectCellRows(ctx context.Context, f CellFilter) ([]RawCellRow, error)
}

// ReconcileRows reduces multi-writer rows to one authoritative cell per
// distinct key: group by the full cell key excluding user_id, keep the row
// with the greatest updated_at. On an exact timestamp tie the row the store
// returned first wins; updated_at carries microsecond resolution so exact
// ties are not expected outside tests.
//
// A winner whose value does not coerce to a number is logged and dropped,
// so the cell resolves as absent rather than zero.
func ReconcileRows(rows []RawCellRow) map[CellKey]*ReconciledCell {
	winners := make(map[CellKey]RawCellRow)
	for _, r := range rows {
		if w, ok := winners[r.CellKey]; ok && !r.UpdatedAt.After(w.UpdatedAt) {
			continue
		}
		winners[r.CellKey] = r
	}

	out := make(map[CellKey]*ReconciledCell, len(winners))
	for k, w := range winners {
		v, ok := ParseNumeric(w.Value)
		if !ok {
			log.Printf("[ERROR] reconcile: unparsable value %q for kpi=%s brand=%s %d-%02d-%02d user=%s, treating cell as absent",
				w.Value, k.KpiID, k.BrandID, k.Year, k.Month, k.Day, w.UserID)
			continue
		}
		out[k] = &ReconciledCell{Value: v, UpdatedAt: w.UpdatedAt}
	}
	return out
}

// Accessor reads contributor rows through a CellStore and serves reconciled
// cells, caching winners per cell key. The accessor itself is read-only;
// the write path calls Invalidate so a fresh read after an upsert or delete
// re-runs the winning-row selection.
type Accessor struct {
	store CellStore
	mu    sync.Mutex
	cache map[CellKey]*ReconciledCell
}

func NewAccessor(store CellStore) *Accessor {
	return &Accessor{
		store: store,
		cache: make(map[CellKey]*ReconciledCell),
	}
}

// FetchReconciledCell returns the authoritative value for one cell, or nil
// when no contributor has written it. Zero rows is not an error.
func (a *Accessor) FetchReconciledCell(ctx context.Context, brandID, kpiID string, p Period) (*ReconciledCell, error) {
	key := CellKey{BrandID: brandID, KpiID: kpiID, Period: p}

	a.mu.Lock()
	if cell, ok := a.cache[key]; ok {
		a.mu.Unlock()
		return cell, nil
	}
	a.mu.Unlock()

	rows, err := a.store.SelectCellRows(ctx, CellFilter{
		BrandID: brandID,
		KpiIDs:  []string{kpiID},
		Year:    p.Year,
		Month:   p.Month,
		Day:     p.Day,
	})
	if err != nil {
		return nil, err
	}

	cell := ReconcileRows(rows)[key]
	if cell != nil {
		a.mu.Lock()
		a.cache[key] = cell
		a.mu.Unlock()
	}
	return cell, nil
}

// FetchReconciledRange reconciles every cell matched by the filter in one
// store round-trip and returns one winner per distinct cell key.
func (a *Accessor) FetchReconciledRange(ctx context.Context, f CellFilter) (map[CellKey]*ReconciledCell, error) {
	rows, err := a.store.SelectCellRows(ctx, f)
	if err != nil {
		return nil, err
	}
	cells := ReconcileRows(rows)

	a.mu.Lock()
	for k, c := range cells {
		a.cache[k] = c
	}
	a.mu.Unlock()
	return cells, nil
}

// Invalidate drops the cached winner for one cell. Every upsert or delete of
// a contributor row must call this for the affected key.
func (a *Accessor) Invalidate(brandID, kpiID string, p Period) {
	key := CellKey{BrandID: brandID, KpiID: kpiID, Period: p}
	a.mu.Lock()
	delete(a.cache, key)
	// a daily write also changes the fold of its month
	if p.Day != 0 {
		delete(a.cache, CellKey{BrandID: brandID, KpiID: kpiID, Period: Period{Year: p.Year, Month: p.Month}})
	}
	a.mu.Unlock()
}

// Flush empties the whole cache. The cron sweeper calls this periodically so
// long-lived processes converge after writes from other instances.
func (a *Accessor) Flush() {
	a.mu.Lock()
	a.cache = make(map[CellKey]*ReconciledCell)
	a.mu.Unlock()
}
