package engine

import (
	"context"
)

// DefinitionStore is the lookup primitive for KPI definitions. A missing
// KPI returns (nil, nil); storage failures wrap ErrStoreUnavailable.
type DefinitionStore interface {
	SelectKpiDefinition(ctx context.Context, kpiID string) (*KpiDefinition, error)
}

// maxResolveDepth bounds recursive percentage resolution. The definition
// graph is acyclic by construction: numerator and denominator of a
// percentage KPI are always direct or target KPIs in practice. The guard
// makes that assumption explicit instead of silently trusting it.
const maxResolveDepth = 2

// Resolver turns a KPI id plus period into the single displayed value,
// composing reconciled cells with the KPI's calculation strategy.
type Resolver struct {
	defs  DefinitionStore
	cells *Accessor
}

func NewResolver(defs DefinitionStore, cells *Accessor) *Resolver {
	return &Resolver{defs: defs, cells: cells}
}

// Definition looks up a KPI and validates it is resolvable. A percentage
// KPI missing either operand id fails loudly with a DefinitionError rather
// than being silently treated as direct.
func (r *Resolver) Definition(ctx context.Context, kpiID string) (*KpiDefinition, error) {
	def, err := r.defs.SelectKpiDefinition(ctx, kpiID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, &DefinitionError{KpiID: kpiID, Reason: "kpi not found"}
	}
	if def.CalculationType == CalcPercentage &&
		(def.NumeratorKpiID == nil || def.DenominatorKpiID == nil) {
		return nil, &DefinitionError{KpiID: kpiID, Reason: "percentage kpi missing numerator or denominator id"}
	}
	return def, nil
}

// ResolveValue resolves one KPI for one period. nil means "no data" and is
// distinct from an explicit zero.
func (r *Resolver) ResolveValue(ctx context.Context, brandID, kpiID string, p Period) (*float64, error) {
	return r.resolve(ctx, brandID, kpiID, p, 0)
}

func (r *Resolver) resolve(ctx context.Context, brandID, kpiID string, p Period, depth int) (*float64, error) {
	if depth > maxResolveDepth {
		return nil, &DefinitionError{KpiID: kpiID, Reason: "resolution depth exceeded, definition graph is expected to be acyclic"}
	}

	def, err := r.Definition(ctx, kpiID)
	if err != nil {
		return nil, err
	}

	switch def.CalculationType {
	case CalcDirect:
		return r.cellValue(ctx, brandID, def, p)

	case CalcTarget:
		// A target-only KPI without monthly data carries no periodic value
		// at all; it is a standalone number the progress view reads.
		if !def.HasTargetData {
			return nil, nil
		}
		return r.cellValue(ctx, brandID, def, p)

	case CalcPercentage:
		num, err := r.resolve(ctx, brandID, *def.NumeratorKpiID, p, depth+1)
		if err != nil {
			return nil, err
		}
		den, err := r.resolve(ctx, brandID, *def.DenominatorKpiID, p, depth+1)
		if err != nil {
			return nil, err
		}
		// An absent operand or a zero denominator yields "no data", never a
		// manufactured 0%, Inf or NaN.
		if num == nil || den == nil || *den == 0 {
			return nil, nil
		}
		v := *num / *den
		if def.Unit == "%" {
			// Display-unit scaling is part of the value contract: YTD and
			// progress math downstream operate on the scaled number.
			v *= 100
		}
		return &v, nil

	default:
		return nil, &DefinitionError{KpiID: kpiID, Reason: "unknown calculation type " + def.CalculationType}
	}
}

// cellValue reads the reconciled value for one period. A monthly period
// prefers an explicit monthly row; when none exists the month resolves to
// the fold of that month's reconciled daily winners under the KPI's
// ytd_calc mode, so daily-entry KPIs still surface monthly figures.
func (r *Resolver) cellValue(ctx context.Context, brandID string, def *KpiDefinition, p Period) (*float64, error) {
	if p.Day > 0 {
		cell, err := r.cells.FetchReconciledCell(ctx, brandID, def.KpiID, p)
		if err != nil {
			return nil, err
		}
		if cell == nil {
			return nil, nil
		}
		v := cell.Value
		return &v, nil
	}

	monthly := Period{Year: p.Year, Month: p.Month}
	cell, err := r.cells.FetchReconciledCell(ctx, brandID, def.KpiID, monthly)
	if err != nil {
		return nil, err
	}
	if cell != nil {
		v := cell.Value
		return &v, nil
	}

	days, err := r.cells.FetchReconciledRange(ctx, CellFilter{
		BrandID: brandID,
		KpiIDs:  []string{def.KpiID},
		Year:    p.Year,
		Month:   p.Month,
		Day:     DayAll,
	})
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}

	var sum float64
	for _, c := range days {
		sum += c.Value
	}
	v := sum
	if def.YtdCalc == YtdAverage {
		v = sum / float64(len(days))
	}
	return &v, nil
}
