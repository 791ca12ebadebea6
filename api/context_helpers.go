package api

import (
	"context"
	"strings"

	"BrandPulseSaas/api/auth"
)

type contextKey string

const (
	// BrandIDsKey carries the brand ids the requesting user may read and write.
	BrandIDsKey contextKey = "brandIDs"
	// BrandNamesKey carries the matching display names, same order.
	BrandNamesKey contextKey = "brandNames"
)

// RequestedByFromCtx resolves the display name of the requesting user,
// falling back to the active-session table when the request context carries
// no session.
func RequestedByFromCtx(ctx context.Context, userID string) string {
	if v := ctx.Value("session"); v != nil {
		if s, ok := v.(*auth.UserSession); ok && s != nil {
			if strings.TrimSpace(s.Name) != "" {
				return s.Name
			}
			if strings.TrimSpace(s.UserID) != "" {
				return s.UserID
			}
		}
	}
	for _, s := range auth.GetActiveSessions() {
		if s.UserID == userID {
			return s.Name
		}
	}
	return ""
}

// CtxBrandIDs returns the accessible brand ids loaded by the prevalidation
// middleware, empty when none.
func CtxBrandIDs(ctx context.Context) []string {
	v := ctx.Value(BrandIDsKey)
	if v == nil {
		return nil
	}
	ids, ok := v.([]string)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			out = append(out, strings.TrimSpace(id))
		}
	}
	return out
}

// CtxBrandNames returns the accessible brand names, empty when none.
func CtxBrandNames(ctx context.Context) []string {
	v := ctx.Value(BrandNamesKey)
	if v == nil {
		return nil
	}
	names, ok := v.([]string)
	if !ok {
		return nil
	}
	return names
}

// CtxHasBrand reports whether the requesting user may act on the brand.
// An empty context (middleware not on the route) denies rather than allows.
func CtxHasBrand(ctx context.Context, brandID string) bool {
	brandID = strings.TrimSpace(brandID)
	if brandID == "" {
		return false
	}
	for _, id := range CtxBrandIDs(ctx) {
		if strings.EqualFold(id, brandID) {
			return true
		}
	}
	return false
}
