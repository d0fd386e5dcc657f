package dto

import "net/http"

// Error code constants shared across handlers
const (
	ErrCodeInternal      = "ERR_INTERNAL"
	ErrCodeBadRequest    = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON   = "ERR_INVALID_JSON"
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeConflict      = "ERR_CONFLICT"
	ErrCodeDuplicate     = "ERR_DUPLICATE"
	ErrCodeUnavailable   = "ERR_UPSTREAM_UNAVAILABLE"
	ErrCodeEmptyCart     = "ERR_EMPTY_CART"
	ErrCodeEmptyBatch    = "ERR_EMPTY_BATCH"
	ErrCodeItemsConflict = "ERR_ITEMS_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidJSON:   http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeDuplicate:     http.StatusConflict,
	ErrCodeUnavailable:   http.StatusBadGateway,
	ErrCodeEmptyCart:     http.StatusBadRequest,
	ErrCodeEmptyBatch:    http.StatusBadRequest,
	ErrCodeItemsConflict: http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
