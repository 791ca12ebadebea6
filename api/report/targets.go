package report

import (
	"encoding/json"
	"net/http"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/constants"
	"BrandPulseSaas/api/report/engine"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetTargets lists all yearly target rows for a brand and year, joined with
// the KPI name for display.
func GetTargets(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string `json:"user_id"`
			BrandID string `json:"brand_id"`
			Year    int    `json:"year"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidJSONPrefix+err.Error())
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}

		query := `
			SELECT t.kpi_id, k.kpi_name, t.year, t.target
			FROM kpi_targets t
			JOIN masterkpi k ON k.kpi_id = t.kpi_id
			WHERE t.brand_id = $1 AND t.year = $2 AND COALESCE(k.is_deleted, false) = false
			ORDER BY k.category, k.kpi_name
		`
		rows, err := pool.Query(ctx, query, req.BrandID, req.Year)
		if err != nil {
			api.LogError("targets: query: %v", err)
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
			return
		}
		defer rows.Close()

		out := []map[string]interface{}{}
		for rows.Next() {
			var kpiID, kpiName string
			var year int
			var target float64
			if err := rows.Scan(&kpiID, &kpiName, &year, &target); err != nil {
				api.LogError("targets: scan: %v", err)
				api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
				return
			}
			out = append(out, map[string]interface{}{
				"kpi_id": kpiID, "kpi_name": kpiName, "year": year, "target": target,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// UpsertTarget writes the single yearly target row for (brand, kpi, year).
func UpsertTarget(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string  `json:"user_id"`
			BrandID string  `json:"brand_id"`
			KpiID   string  `json:"kpi_id"`
			Year    int     `json:"year"`
			Target  float64 `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidJSONPrefix+err.Error())
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}
		if req.KpiID == "" || req.Year < 2000 || req.Year > 2100 {
			api.RespondWithResult(w, false, constants.ErrInvalidPeriod)
			return
		}

		if err := eng.Store.UpsertTarget(ctx, req.BrandID, req.KpiID, req.Year, req.Target); err != nil {
			api.LogError("targets: upsert: %v", err)
			api.RespondWithResult(w, false, constants.ErrTargetUpsertFailed)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// DeleteTarget removes the yearly target row. The KPI's static target, when
// defined, takes over as the fallback.
func DeleteTarget(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string `json:"user_id"`
			BrandID string `json:"brand_id"`
			KpiID   string `json:"kpi_id"`
			Year    int    `json:"year"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidJSONPrefix+err.Error())
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}

		if err := eng.Store.DeleteTarget(ctx, req.BrandID, req.KpiID, req.Year); err != nil {
			api.LogError("targets: delete: %v", err)
			api.RespondWithResult(w, false, constants.ErrReportStoreDown)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}
