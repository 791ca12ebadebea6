package report

import (
	"encoding/json"
	"errors"
	"net/http"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/constants"
	"BrandPulseSaas/api/report/engine"
)

// GetYtdSummary returns the year-to-date figure and target progress for a
// set of KPIs. Definition problems are reported per KPI; the batch never
// fails because one KPI is misconfigured.
func GetYtdSummary(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string   `json:"user_id"`
			BrandID string   `json:"brand_id"`
			Year    int      `json:"year"`
			KpiIDs  []string `json:"kpi_ids"`
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
		if len(req.KpiIDs) == 0 {
			api.RespondWithResult(w, false, "kpi_ids required")
			return
		}

		out := make([]map[string]interface{}, 0, len(req.KpiIDs))
		for _, kpiID := range req.KpiIDs {
			entry := map[string]interface{}{"kpi_id": kpiID}

			def, err := eng.Resolver.Definition(ctx, kpiID)
			if err == nil {
				var ytd float64
				ytd, err = eng.Ytd.AggregateYtd(ctx, req.BrandID, kpiID, req.Year)
				if err == nil {
					entry["ytd"] = ytd
					target, terr := eng.TargetFor(ctx, req.BrandID, def, req.Year)
					if terr != nil {
						api.LogError("ytd summary: target for kpi %s: %v", kpiID, terr)
						api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
						return
					}
					entry["target"] = target
					entry["progress"] = engine.ComputeProgress(ytd, target)
				}
			}
			if err != nil {
				var defErr *engine.DefinitionError
				if errors.As(err, &defErr) {
					entry["error"] = defErr.Reason
				} else {
					api.LogError("ytd summary: kpi %s: %v", kpiID, err)
					api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
					return
				}
			}
			out = append(out, entry)
		}

		api.RespondWithPayload(w, true, "", out)
	}
}
