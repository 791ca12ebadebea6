package middlewares

import (
	"context"
	"net/http"

	"BrandPulseSaas/api"
	"BrandPulseSaas/api/auth"
	"BrandPulseSaas/api/constants"
	"BrandPulseSaas/internal/validation"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PreValidationMiddleware extracts user_id from the body, checks the
// in-memory session, loads the user's accessible brands and stores them in
// the request context. Handlers behind it only re-check the specific brand
// they act on via api.CtxHasBrand.
func PreValidationMiddleware(db *pgxpool.Pool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, err := validation.ExtractUserID(r)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrUserIDRequired)
				return
			}

			session := validation.ValidateSession(userID)
			if session == nil {
				api.RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
				return
			}
			auth.Touch(userID)

			brands, err := validation.GetUserBrands(ctx, db, userID)
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, "Validation failed: "+err.Error())
				return
			}
			if len(brands) == 0 {
				api.RespondWithError(w, http.StatusForbidden, constants.ErrNoAccessibleBrand)
				return
			}

			brandIDs := make([]string, 0, len(brands))
			brandNames := make([]string, 0, len(brands))
			for _, b := range brands {
				brandIDs = append(brandIDs, b.BrandID)
				brandNames = append(brandNames, b.BrandName)
			}

			ctx = context.WithValue(ctx, "user_id", userID)
			ctx = context.WithValue(ctx, "session", session)
			ctx = context.WithValue(ctx, api.BrandIDsKey, brandIDs)
			ctx = context.WithValue(ctx, api.BrandNamesKey, brandNames)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
