package master

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/constants"
	"BrandPulseSaas/api/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BrandMasterRequest struct {
	BrandName string `json:"brand_name"`
	Country   string `json:"country"`
	Status    string `json:"status"`
}

func CreateBrandMaster(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID string               `json:"user_id"`
			Brands []BrandMasterRequest `json:"brands"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if len(req.Brands) == 0 {
			api.RespondWithResult(w, false, "No brands to create")
			return
		}
		createdBy := api.RequestedByFromCtx(ctx, req.UserID)

		var results []map[string]interface{}
		for _, b := range req.Brands {
			if strings.TrimSpace(b.BrandName) == "" {
				results = append(results, map[string]interface{}{
					"success": false, "brand_name": b.BrandName, "error": "brand_name is required",
				})
				continue
			}

			brandID := "B" + strings.ToUpper(uuid.New().String()[:8])
			_, err := pgxPool.Exec(ctx, `
				INSERT INTO masterbrand (brand_id, brand_name, country, status, created_by, created_at)
				VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'active'), $5, now())
			`, brandID, strings.TrimSpace(b.BrandName), b.Country, b.Status, createdBy)
			if err != nil {
				api.LogError("brand create %s: %v", b.BrandName, err)
				results = append(results, map[string]interface{}{
					"success": false, "brand_name": b.BrandName, "error": constants.ErrBrandCreateFailed,
				})
				continue
			}

			// the creator can see the brand immediately
			if _, err := pgxPool.Exec(ctx, `
				INSERT INTO user_brand_access (user_id, brand_id)
				VALUES ($1, $2) ON CONFLICT DO NOTHING
			`, req.UserID, brandID); err != nil {
				api.LogError("brand access grant %s: %v", brandID, err)
			}

			results = append(results, map[string]interface{}{
				"success": true, "brand_id": brandID, "brand_name": b.BrandName,
			})
		}
		api.RespondWithPayload(w, api.IsBulkSuccess(results), "", results)
	}
}

func UpdateBrandMaster(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string             `json:"user_id"`
			BrandID string             `json:"brand_id"`
			Brand   BrandMasterRequest `json:"brand"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}
		if strings.TrimSpace(req.Brand.BrandName) == "" {
			api.RespondWithResult(w, false, "brand_name is required")
			return
		}
		updatedBy := api.RequestedByFromCtx(ctx, req.UserID)

		tag, err := pgxPool.Exec(ctx, `
			UPDATE masterbrand SET
				brand_name = $1, country = $2,
				status = COALESCE(NULLIF($3, ''), status),
				updated_by = $4, updated_at = now()
			WHERE brand_id = $5 AND COALESCE(is_deleted, false) = false
		`, strings.TrimSpace(req.Brand.BrandName), req.Brand.Country, req.Brand.Status,
			updatedBy, req.BrandID)
		if err != nil {
			api.LogError("brand update %s: %v", req.BrandID, err)
			api.RespondWithResult(w, false, constants.ErrBrandUpdateFailed)
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, constants.ErrBrandNotFound)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// DeleteBrandMaster soft-deletes a brand. Report rows stay in place; the
// prevalidation middleware stops serving the brand to every user.
func DeleteBrandMaster(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID  string `json:"user_id"`
			BrandID string `json:"brand_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}
		deletedBy := api.RequestedByFromCtx(ctx, req.UserID)

		tag, err := pgxPool.Exec(ctx, `
			UPDATE masterbrand SET is_deleted = true, updated_by = $1, updated_at = now()
			WHERE brand_id = $2 AND COALESCE(is_deleted, false) = false
		`, deletedBy, req.BrandID)
		if err != nil {
			api.LogError("brand delete %s: %v", req.BrandID, err)
			api.RespondWithResult(w, false, constants.ErrDB)
			return
		}
		if tag.RowsAffected() == 0 {
			api.RespondWithResult(w, false, constants.ErrBrandNotFound)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// GetBrandMaster lists the caller's accessible brands with master fields.
func GetBrandMaster(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		brandIDs := api.CtxBrandIDs(ctx)
		if len(brandIDs) == 0 {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrNoAccessibleBrand)
			return
		}

		pagination, err := utils.ExtractPagination(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		total, err := utils.CountTotal(ctx, pgxPool, `
			SELECT COUNT(*) FROM masterbrand
			WHERE brand_id = ANY($1) AND COALESCE(is_deleted, false) = false
		`, brandIDs)
		if err != nil {
			api.LogError("brand list count: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		pagination.SetPaginationStats(total)

		rows, err := pgxPool.Query(ctx, `
			SELECT brand_id, brand_name, COALESCE(country, ''), COALESCE(status, 'active'),
				created_by, created_at, updated_by, updated_at
			FROM masterbrand
			WHERE brand_id = ANY($1) AND COALESCE(is_deleted, false) = false
			ORDER BY brand_name
			LIMIT $2 OFFSET $3
		`, brandIDs, pagination.Limit, pagination.Offset)
		if err != nil {
			api.LogError("brand list: %v", err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		defer rows.Close()

		out := []map[string]interface{}{}
		for rows.Next() {
			var brandID, brandName, country, status string
			var createdBy, updatedBy *string
			var createdAt, updatedAt *time.Time
			if err := rows.Scan(&brandID, &brandName, &country, &status,
				&createdBy, &createdAt, &updatedBy, &updatedAt); err != nil {
				api.LogError("brand list scan: %v", err)
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			created := api.GetAuditInfo("CREATE", createdBy, createdAt)
			edited := api.GetAuditInfo("EDIT", updatedBy, updatedAt)
			out = append(out, map[string]interface{}{
				"brand_id": brandID, "brand_name": brandName,
				"country": country, "status": status,
				"created_by": created.CreatedBy, "created_at": created.CreatedAt,
				"updated_by": edited.EditedBy, "updated_at": edited.EditedAt,
			})
		}

		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"brands":     out,
			"pagination": pagination,
		})
	}
}

// GrantBrandAccess lets a user see and write a brand's report.
func GrantBrandAccess(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID       string `json:"user_id"`
			TargetUserID string `json:"target_user_id"`
			BrandID      string `json:"brand_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}
		if req.TargetUserID == "" {
			api.RespondWithResult(w, false, "target_user_id required")
			return
		}

		if _, err := pgxPool.Exec(ctx, `
			INSERT INTO user_brand_access (user_id, brand_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, req.TargetUserID, req.BrandID); err != nil {
			api.LogError("brand access grant: %v", err)
			api.RespondWithResult(w, false, constants.ErrDB)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// RevokeBrandAccess removes a user's access; their historical rows remain
// and keep participating in reconciliation.
func RevokeBrandAccess(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID       string `json:"user_id"`
			TargetUserID string `json:"target_user_id"`
			BrandID      string `json:"brand_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if !api.CtxHasBrand(ctx, req.BrandID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrBrandNotAllowed)
			return
		}

		if _, err := pgxPool.Exec(ctx, `
			DELETE FROM user_brand_access WHERE user_id = $1 AND brand_id = $2
		`, req.TargetUserID, req.BrandID); err != nil {
			api.LogError("brand access revoke: %v", err)
			api.RespondWithResult(w, false, constants.ErrDB)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}
