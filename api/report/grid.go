package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/constants"
	"BrandPulseSaas/api/report/engine"
)

// GridRow is one KPI line of the report grid: the definition, resolved
// monthly values, the year-to-date figure and progress against target.
// Months holds one slot per calendar month; nil means no data for that month.
type GridRow struct {
	Kpi      engine.KpiDefinition `json:"kpi"`
	Months   []*float64           `json:"months"`
	Ytd      *float64             `json:"ytd"`
	Target   *float64             `json:"target"`
	Progress engine.Progress      `json:"progress"`
	Error    string               `json:"error,omitempty"`
}

// GetReportGrid builds the full grid for one brand and year. A KPI with a
// broken definition comes back as a row with Error set and no values; the
// rest of the grid is unaffected. A store outage fails the whole request.
func GetReportGrid(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string   `json:"user_id"`
			BrandID string   `json:"brand_id"`
			Year    int      `json:"year"`
			KpiIDs  []string `json:"kpi_ids,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidJSONPrefix+err.Error())
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}
		if req.Year < 2000 || req.Year > 2100 {
			api.RespondWithResult(w, false, constants.ErrInvalidPeriod)
			return
		}

		defs, err := eng.Store.SelectKpiDefinitions(ctx)
		if err != nil {
			api.LogError("grid: load definitions: %v", err)
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
			return
		}
		if len(req.KpiIDs) > 0 {
			wanted := make(map[string]bool, len(req.KpiIDs))
			for _, id := range req.KpiIDs {
				wanted[id] = true
			}
			filtered := defs[:0]
			for _, d := range defs {
				if wanted[d.KpiID] {
					filtered = append(filtered, d)
				}
			}
			defs = filtered
		}

		// one range read warms the accessor cache for every monthly cell of
		// the year, so the per-KPI loop below resolves from memory
		kpiIDs := make([]string, 0, len(defs))
		for _, d := range defs {
			kpiIDs = append(kpiIDs, d.KpiID)
		}
		if _, err := eng.Cells.FetchReconciledRange(ctx, engine.CellFilter{
			BrandID: req.BrandID,
			KpiIDs:  kpiIDs,
			Year:    req.Year,
		}); err != nil {
			api.LogError("grid: warm cells: %v", err)
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
			return
		}

		rows := make([]GridRow, 0, len(defs))
		for _, def := range defs {
			row, err := buildGridRow(ctx, eng, req.BrandID, def, req.Year)
			if err != nil {
				api.LogError("grid: kpi %s: %v", def.KpiID, err)
				api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
				return
			}
			rows = append(rows, row)
		}

		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"brand_id": req.BrandID,
			"year":     req.Year,
			"rows":     rows,
		})
	}
}

// buildGridRow resolves one KPI for every month plus YTD and progress.
// Definition errors are folded into the row; only storage failures return an
// error.
func buildGridRow(ctx context.Context, eng *engine.Engine, brandID string, def engine.KpiDefinition, year int) (GridRow, error) {
	row := GridRow{Kpi: def, Months: make([]*float64, 12)}

	for m := 1; m <= 12; m++ {
		v, err := eng.Resolver.ResolveValue(ctx, brandID, def.KpiID, engine.Period{Year: year, Month: m})
		if err != nil {
			var defErr *engine.DefinitionError
			if errors.As(err, &defErr) {
				row.Error = defErr.Reason
				row.Months = make([]*float64, 12)
				return row, nil
			}
			return row, err
		}
		row.Months[m-1] = v
	}

	ytd, err := eng.Ytd.AggregateYtd(ctx, brandID, def.KpiID, year)
	if err != nil {
		var defErr *engine.DefinitionError
		if errors.As(err, &defErr) {
			row.Error = defErr.Reason
			return row, nil
		}
		return row, err
	}
	row.Ytd = &ytd

	target, err := eng.TargetFor(ctx, brandID, &def, year)
	if err != nil {
		return row, err
	}
	row.Target = target
	row.Progress = engine.ComputeProgress(ytd, target)
	return row, nil
}
