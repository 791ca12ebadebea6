package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"BrandPulseSaas/api/auth"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ExtractUserID parses the request body ONCE and extracts user_id.
// The body is restored afterwards so handlers can decode it again.
func ExtractUserID(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	defer r.Body.Close()

	var reqMap map[string]interface{}
	if err := json.Unmarshal(body, &reqMap); err == nil {
		if userID, ok := reqMap["user_id"].(string); ok && userID != "" {
			r.Body = io.NopCloser(bytes.NewBuffer(body))
			return userID, nil
		}
	}

	r.Body = io.NopCloser(bytes.NewBuffer(body))
	ct := r.Header.Get("Content-Type")
	if strings.Contains(strings.ToLower(ct), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			if userID := r.FormValue("user_id"); userID != "" {
				r.Body = io.NopCloser(bytes.NewBuffer(body))
				return userID, nil
			}
		}
	} else {
		if err := r.ParseForm(); err == nil {
			if userID := r.FormValue("user_id"); userID != "" {
				r.Body = io.NopCloser(bytes.NewBuffer(body))
				return userID, nil
			}
		}
	}

	r.Body = io.NopCloser(bytes.NewBuffer(body))
	return "", fmt.Errorf("user_id not found in request")
}

// ValidateSession checks if the user has an active session (in-memory, no DB).
// Returns the session object or nil if not found.
func ValidateSession(userID string) *auth.UserSession {
	sessions := auth.GetActiveSessions()
	for _, s := range sessions {
		if s.UserID == userID {
			return s
		}
	}
	return nil
}

// BrandInfo is one brand the user may report on.
type BrandInfo struct {
	BrandID   string
	BrandName string
}

// GetUserBrands retrieves every live brand the user has been granted access
// to, one query, ordered for display.
func GetUserBrands(ctx context.Context, db *pgxpool.Pool, userID string) ([]BrandInfo, error) {
	query := `
		SELECT b.brand_id, b.brand_name
		FROM user_brand_access uba
		JOIN masterbrand b ON b.brand_id = uba.brand_id
		WHERE uba.user_id = $1
		  AND COALESCE(b.is_deleted, false) = false
		  AND LOWER(COALESCE(b.status, 'active')) = 'active'
		ORDER BY b.brand_name
	`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}
	defer rows.Close()

	brands := []BrandInfo{}
	for rows.Next() {
		var b BrandInfo
		if err := rows.Scan(&b.BrandID, &b.BrandName); err == nil {
			brands = append(brands, b)
		}
	}

	return brands, nil
}

// NormalizeString trims whitespace and converts to lowercase for comparisons
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateBrandID checks if a brand id is in the user's accessible list
func ValidateBrandID(brandID string, accessible []BrandInfo) bool {
	normalized := strings.TrimSpace(brandID)
	for _, b := range accessible {
		if b.BrandID == normalized {
			return true
		}
	}
	return false
}
