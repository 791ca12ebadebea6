package report

import (
	"encoding/json"
	"net/http"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/constants"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// orderingContext names the view a saved order belongs to, so the grid and
// future views keep independent orders.
func orderingContext(c string) string {
	if c == "" {
		return "report_grid"
	}
	return c
}

// GetOrdering returns the caller's saved KPI display order for a brand,
// empty when the user never saved one (the UI then falls back to the
// category ordering the master service returns).
func GetOrdering(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string `json:"user_id"`
			BrandID string `json:"brand_id"`
			Context string `json:"context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithResult(w, false, constants.ErrInvalidJSONPrefix+err.Error())
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}

		rows, err := pool.Query(ctx, `
			SELECT kpi_id FROM kpi_ordering
			WHERE user_id = $1 AND brand_id = $2 AND context = $3
			ORDER BY order_index
		`, req.UserID, req.BrandID, orderingContext(req.Context))
		if err != nil {
			api.LogError("ordering: query: %v", err)
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
			return
		}
		defer rows.Close()

		out := []string{}
		for rows.Next() {
			var kpiID string
			if err := rows.Scan(&kpiID); err != nil {
				api.LogError("ordering: scan: %v", err)
				api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrReportStoreDown)
				return
			}
			out = append(out, kpiID)
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// SaveOrdering replaces the caller's KPI order for a brand in one
// transaction, so a concurrent read never sees a half-written order.
func SaveOrdering(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string   `json:"user_id"`
			BrandID string   `json:"brand_id"`
			Context string   `json:"context"`
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
		if len(req.KpiIDs) == 0 {
			api.RespondWithResult(w, false, "kpi_ids required")
			return
		}

		tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			api.LogError("ordering: begin: %v", err)
			api.RespondWithResult(w, false, constants.ErrOrderingSaveFailed)
			return
		}
		defer tx.Rollback(ctx)

		if _, err := tx.Exec(ctx,
			`DELETE FROM kpi_ordering WHERE user_id = $1 AND brand_id = $2 AND context = $3`,
			req.UserID, req.BrandID, orderingContext(req.Context),
		); err != nil {
			api.LogError("ordering: clear: %v", err)
			api.RespondWithResult(w, false, constants.ErrOrderingSaveFailed)
			return
		}
		for i, kpiID := range req.KpiIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO kpi_ordering (user_id, brand_id, context, kpi_id, order_index)
				VALUES ($1, $2, $3, $4, $5)
			`, req.UserID, req.BrandID, orderingContext(req.Context), kpiID, i); err != nil {
				api.LogError("ordering: insert: %v", err)
				api.RespondWithResult(w, false, constants.ErrOrderingSaveFailed)
				return
			}
		}
		if err := tx.Commit(ctx); err != nil {
			api.LogError("ordering: commit: %v", err)
			api.RespondWithResult(w, false, constants.ErrOrderingSaveFailed)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}
