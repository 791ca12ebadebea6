package report

import (
	"encoding/json"
	"net/http"
	"strings"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/constants"
	"BrandPulseSaas/api/report/engine"
)

// CellEntry is one submitted value. Day 0 means a monthly cell. An empty
// Value clears the caller's own row for the cell instead of storing zero.
type CellEntry struct {
	KpiID string `json:"kpi_id"`
	Month int    `json:"month"`
	Day   int    `json:"day,omitempty"`
	Value string `json:"value"`
}

func validPeriod(year, month, day int) bool {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return false
	}
	return day >= 0 && day <= 31
}

// UpsertReportCells writes the caller's own rows for a batch of cells. Each
// entry succeeds or fails on its own; other contributors' rows are never
// touched, reconciliation happens on read.
func UpsertReportCells(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string      `json:"user_id"`
			BrandID string      `json:"brand_id"`
			Year    int         `json:"year"`
			Entries []CellEntry `json:"entries"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidJSONPrefix+err.Error())
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}
		if len(req.Entries) == 0 {
			api.RespondWithResult(w, false, "No entries to save")
			return
		}

		results := make([]map[string]interface{}, 0, len(req.Entries))
		for _, e := range req.Entries {
			if !validPeriod(req.Year, e.Month, e.Day) {
				results = append(results, map[string]interface{}{
					"success": false, "kpi_id": e.KpiID, "month": e.Month, "day": e.Day,
					"error": constants.ErrInvalidPeriod,
				})
				continue
			}

			key := engine.CellKey{
				BrandID: req.BrandID,
				KpiID:   e.KpiID,
				Period:  engine.Period{Year: req.Year, Month: e.Month, Day: e.Day},
			}

			var err error
			if strings.TrimSpace(e.Value) == "" {
				// cleared cell: delete the row, never store zero or null
				err = eng.DeleteCell(ctx, key, req.UserID)
			} else {
				err = eng.UpsertCell(ctx, engine.RawCellRow{
					CellKey: key,
					UserID:  req.UserID,
					Value:   strings.TrimSpace(e.Value),
				})
			}

			res := map[string]interface{}{
				"success": err == nil, "kpi_id": e.KpiID, "month": e.Month, "day": e.Day,
			}
			if err != nil {
				api.LogError("cell upsert failed for kpi=%s: %v", e.KpiID, err)
				res["error"] = err.Error()
			}
			results = append(results, res)
		}

		api.RespondWithPayload(w, api.IsBulkSuccess(results), "", results)
	}
}

// DeleteReportCell removes the caller's own row for one cell.
func DeleteReportCell(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string `json:"user_id"`
			BrandID string `json:"brand_id"`
			KpiID   string `json:"kpi_id"`
			Year    int    `json:"year"`
			Month   int    `json:"month"`
			Day     int    `json:"day,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidJSONPrefix+err.Error())
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}
		if !validPeriod(req.Year, req.Month, req.Day) {
			api.RespondWithResult(w, false, constants.ErrInvalidPeriod)
			return
		}

		key := engine.CellKey{
			BrandID: req.BrandID,
			KpiID:   req.KpiID,
			Period:  engine.Period{Year: req.Year, Month: req.Month, Day: req.Day},
		}
		if err := eng.DeleteCell(ctx, key, req.UserID); err != nil {
			api.RespondWithResult(w, false, constants.ErrReportStoreDown)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}
