package master

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/constants"
	"BrandPulseSaas/api/report/engine"
	"BrandPulseSaas/api/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// kpiMasterRow is one listed KPI with its audit trail.
type kpiMasterRow struct {
	engine.KpiDefinition
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	EditedBy  string `json:"updated_by,omitempty"`
	EditedAt  string `json:"updated_at,omitempty"`
}

type KpiMasterRequest struct {
	KpiName          string   `json:"kpi_name"`
	Category         string   `json:"category"`
	Unit             string   `json:"unit"`
	CalculationType  string   `json:"calculation_type"`
	NumeratorKpiID   *string  `json:"numerator_kpi_id"`
	DenominatorKpiID *string  `json:"denominator_kpi_id"`
	StaticTarget     *float64 `json:"static_target"`
	HasTargetData    bool     `json:"has_target_data"`
	YtdCalc          string   `json:"ytd_calc"`
	OnlyCumulative   bool     `json:"only_cumulative"`
}

// validateKpiRequest rejects definitions the resolver would later fail on.
// A percentage KPI without both operand ids is refused here, loudly, instead
// of being stored and silently treated as direct.
func validateKpiRequest(req *KpiMasterRequest) string {
	if strings.TrimSpace(req.KpiName) == "" {
		return "kpi_name is required"
	}
	switch req.CalculationType {
	case engine.CalcDirect, engine.CalcTarget:
	case engine.CalcPercentage:
		if req.NumeratorKpiID == nil || *req.NumeratorKpiID == "" ||
			req.DenominatorKpiID == nil || *req.DenominatorKpiID == "" {
			return constants.ErrKpiMissingOperands
		}
	default:
		return constants.ErrKpiInvalidCalcType
	}
	if req.YtdCalc == "" {
		req.YtdCalc = engine.YtdSum
	}
	if req.YtdCalc != engine.YtdSum && req.YtdCalc != engine.YtdAverage {
		return constants.ErrKpiInvalidYtdCalc
	}
	return ""
}

func CreateKpiMaster(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID string             `json:"user_id"`
			Kpis   []KpiMasterRequest `json:"kpis"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if len(req.Kpis) == 0 {
			api.RespondWithResult(w, false, "No KPIs to create")
			return
		}
		createdBy := api.RequestedByFromCtx(ctx, req.UserID)

		var results []map[string]interface{}
		for _, k := range req.Kpis {
			if msg := validateKpiRequest(&k); msg != "" {
				results = append(results, map[string]interface{}{
					"success": false, "kpi_name": k.KpiName, "error": msg,
				})
				continue
			}

			kpiID := "K" + strings.ToUpper(uuid.New().String()[:8])
			_, err := pgxPool.Exec(ctx, `
				INSERT INTO masterkpi (
					kpi_id, kpi_name, category, unit, calculation_type,
					numerator_kpi_id, denominator_kpi_id, static_target,
					has_target_data, ytd_calc, only_cumulative,
					created_by, created_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
			`, kpiID, strings.TrimSpace(k.KpiName), k.Category, k.Unit, k.CalculationType,
				k.NumeratorKpiID, k.DenominatorKpiID, k.StaticTarget,
				k.HasTargetData, k.YtdCalc, k.OnlyCumulative, createdBy)
			if err != nil {
				results = append(results, map[string]interface{}{
					"success": false, "kpi_name": k.KpiName, "error": constants.ErrKpiCreateFailed,
				})
				api.LogError("kpi create %s: %v", k.KpiName, err)
				continue
			}
			results = append(results, map[string]interface{}{
				"success": true, "kpi_id": kpiID, "kpi_name": k.KpiName,
			})
		}
		api.RespondWithPayload(w, api.IsBulkSuccess(results), "", results)
	}
}

func UpdateKpiMaster(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID string           `json:"user_id"`
			KpiID  string           `json:"kpi_id"`
			Kpi    KpiMasterRequest `json:"kpi"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if req.KpiID == "" {
			api.RespondWithResult(w, false, "kpi_id required")
			return
		}
		if msg := validateKpiRequest(&req.Kpi); msg != "" {
			api.RespondWithResult(w, false, msg)
			return
		}
		updatedBy := api.RequestedByFromCtx(ctx, req.UserID)

		tag, err := pgxPool.Exec(ctx, `
			UPDATE masterkpi SET
				kpi_name = $1, category = $2, unit = $3, calculation_type = $4,
				numerator_kpi_id = $5, denominator_kpi_id = $6, static_target = $7,
				has_target_data = $8, ytd_calc = $9, only_cumulative = $10,
				updated_by = $11, updated_at = now()
			WHERE kpi_id = $12 AND COALESCE(is_deleted, false) = false
		`, strings.TrimSpace(req.Kpi.KpiName), req.Kpi.Category, req.Kpi.Unit, req.Kpi.CalculationType,
			req.Kpi.NumeratorKpiID, req.Kpi.DenominatorKpiID, req.Kpi.StaticTarget,
			req.Kpi.HasTargetData, req.Kpi.YtdCalc, req.Kpi.OnlyCumulative,
			updatedBy, req.KpiID)
		if err != nil {
			api.LogError("kpi update %s: %v", req.KpiID, err)
			api.RespondWithResult(w, false, constants.ErrKpiUpdateFailed)
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, constants.ErrKpiNotFound)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// DeleteKpiMaster soft-deletes a KPI. Historical report rows keep the id so
// past grids still render; the resolver refuses the KPI going forward.
func DeleteKpiMaster(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID string `json:"user_id"`
			KpiID  string `json:"kpi_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		deletedBy := api.RequestedByFromCtx(ctx, req.UserID)

		tag, err := pgxPool.Exec(ctx, `
			UPDATE masterkpi SET is_deleted = true, updated_by = $1, updated_at = now()
			WHERE kpi_id = $2 AND COALESCE(is_deleted, false) = false
		`, deletedBy, req.KpiID)
		if err != nil {
			api.LogError("kpi delete %s: %v", req.KpiID, err)
			api.RespondWithResult(w, false, constants.ErrDB)
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, constants.ErrKpiNotFound)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

func GetKpiMaster(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pagination, err := utils.ExtractPagination(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		total, err := utils.CountTotal(ctx, pgxPool,
			`SELECT COUNT(*) FROM masterkpi WHERE COALESCE(is_deleted, false) = false`)
		if err != nil {
			api.LogError("kpi list count: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		pagination.SetPaginationStats(total)

		rows, err := pgxPool.Query(ctx, `
			SELECT kpi_id, kpi_name, COALESCE(category, ''), COALESCE(unit, ''),
				calculation_type, numerator_kpi_id, denominator_kpi_id, static_target,
				COALESCE(has_target_data, false), COALESCE(ytd_calc, 'sum'),
				COALESCE(only_cumulative, false),
				created_by, created_at, updated_by, updated_at
			FROM masterkpi
			WHERE COALESCE(is_deleted, false) = false
			ORDER BY category, kpi_name
			LIMIT $1 OFFSET $2
		`, pagination.Limit, pagination.Offset)
		if err != nil {
			api.LogError("kpi list: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		defer rows.Close()

		out := []kpiMasterRow{}
		for rows.Next() {
			var d engine.KpiDefinition
			var createdBy, updatedBy *string
			var createdAt, updatedAt *time.Time
			if err := rows.Scan(
				&d.KpiID, &d.Name, &d.Category, &d.Unit, &d.CalculationType,
				&d.NumeratorKpiID, &d.DenominatorKpiID, &d.StaticTarget,
				&d.HasTargetData, &d.YtdCalc, &d.OnlyCumulative,
				&createdBy, &createdAt, &updatedBy, &updatedAt,
			); err != nil {
				api.LogError("kpi list scan: %v", err)
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			created := api.GetAuditInfo("CREATE", createdBy, createdAt)
			edited := api.GetAuditInfo("EDIT", updatedBy, updatedAt)
			out = append(out, kpiMasterRow{
				KpiDefinition: d,
				CreatedBy:     created.CreatedBy,
				CreatedAt:     created.CreatedAt,
				EditedBy:      edited.EditedBy,
				EditedAt:      edited.EditedAt,
			})
		}

		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"kpis":       out,
			"pagination": pagination,
		})
	}
}
