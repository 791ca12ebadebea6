package constants

// Common error messages
const (
	ErrInvalidSession            = "invalid user_id or session"
	ErrInvalidSessionCapitalized = "Invalid user_id or session"
	ErrInvalidJSON               = "invalid json or missing fields"
	ErrInvalidJSONPrefix         = "Invalid JSON: "
	ErrInvalidJSONShort          = "Invalid JSON"
	ErrMissingUserID             = "Missing or invalid user_id in body"
	ErrUserIDRequired            = "user_id required"
	ErrDB                        = "DB error"
	ErrInvalidRequestBody        = "Invalid request body"
	ErrNoAccessibleBrand         = "No accessible brands found"
	ErrBrandNotAllowed           = "Brand not accessible for this user"
	ErrFailedToQuery             = "Failed to query"
	ErrPleaseLogin               = "Please login to continue."
	ErrMethodNotAllowed          = "Method Not Allowed"
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "Content-Type"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
)
