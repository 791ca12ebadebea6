package constants

// ============================================================================
// AUTHENTICATION & SESSION ERRORS
// ============================================================================

const (
	ErrUnauthorized   = "You are not authorized to perform this action"
	ErrSessionExpired = "Your session has expired. Please login again"
)

// ============================================================================
// VALIDATION ERRORS - User & Brand
// ============================================================================

const (
	ErrUserNotFound        = "User not found in the system"
	ErrNoBrandAssigned     = "User has no brand assigned. Please contact administrator"
	ErrBrandNotFound       = "Brand not found or you don't have access to it"
	ErrBrandCreateFailed   = "Failed to create brand. Please check if the brand already exists"
	ErrBrandUpdateFailed   = "Failed to update brand. Please verify the brand ID and try again"
	ErrBrandDeleted        = "Brand has been deleted"
)

// ============================================================================
// VALIDATION ERRORS - KPI definitions
// ============================================================================

const (
	ErrKpiNotFound          = "KPI not found in the system"
	ErrKpiCreateFailed      = "Failed to create KPI. Please check if the KPI already exists"
	ErrKpiUpdateFailed      = "Failed to update KPI. Please verify the KPI ID and try again"
	ErrKpiMissingOperands   = "Percentage KPI requires both numerator and denominator KPI ids"
	ErrKpiInvalidCalcType   = "calculation_type must be one of direct, percentage, target"
	ErrKpiInvalidYtdCalc    = "ytd_calc must be sum or average"
)

// ============================================================================
// REPORT ERRORS
// ============================================================================

const (
	ErrReportStoreDown    = "Report store is temporarily unavailable. Please retry"
	ErrInvalidPeriod      = "Invalid year/month/day in request"
	ErrTargetUpsertFailed = "Failed to save target"
	ErrOrderingSaveFailed = "Failed to save KPI ordering"
	ErrUploadUnsupported  = "Unsupported upload file type. Use .csv, .xlsx or .xls"
	ErrUploadDuplicate    = "This file was already uploaded"
)
