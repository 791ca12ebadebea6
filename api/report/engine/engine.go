package engine

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Engine wires the reconciliation accessor, the derived-value resolver and
// the YTD aggregator over one Postgres pool. Handlers hold a single Engine
// and reach the layer they need.
type Engine struct {
	Store    *PgStore
	Cells    *Accessor
	Resolver *Resolver
	Ytd      *Aggregator
}

func New(pool *pgxpool.Pool) *Engine {
	store := NewPgStore(pool)
	cells := NewAccessor(store)
	resolver := NewResolver(store, cells)
	return &Engine{
		Store:    store,
		Cells:    cells,
		Resolver: resolver,
		Ytd:      NewAggregator(resolver),
	}
}

// UpsertCell writes one contributor row and invalidates the cached
// reconciliation for the affected cell, so a write-then-read sees the new
// winner.
func (e *Engine) UpsertCell(ctx context.Context, r RawCellRow) error {
	if err := e.Store.UpsertCellRow(ctx, r); err != nil {
		return err
	}
	e.Cells.Invalidate(r.BrandID, r.KpiID, r.Period)
	return nil
}

// UpsertCells writes a batch of contributor rows in one store round trip.
// The returned slice has one entry per input row; only rows that landed get
// their cached reconciliation invalidated.
func (e *Engine) UpsertCells(ctx context.Context, rows []RawCellRow) []error {
	errs := e.Store.UpsertCellRows(ctx, rows)
	for i, r := range rows {
		if errs[i] == nil {
			e.Cells.Invalidate(r.BrandID, r.KpiID, r.Period)
		}
	}
	return errs
}

// DeleteCell removes one contributor row and invalidates the cell.
func (e *Engine) DeleteCell(ctx context.Context, key CellKey, userID string) error {
	if err := e.Store.DeleteCellRow(ctx, key, userID); err != nil {
		return err
	}
	e.Cells.Invalidate(key.BrandID, key.KpiID, key.Period)
	return nil
}

// TargetFor returns the effective target for (brand, kpi, year): the yearly
// target row when present, otherwise the KPI's static fallback target, or
// nil when neither exists.
func (e *Engine) TargetFor(ctx context.Context, brandID string, def *KpiDefinition, year int) (*float64, error) {
	t, err := e.Store.SelectTarget(ctx, brandID, def.KpiID, year)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return t, nil
	}
	return def.StaticTarget, nil
}
