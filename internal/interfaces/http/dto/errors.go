package dto

import (
	"net/http"
	"strings"
)

// Error codes the HTTP layer emits on its own behalf. Domain error
// codes pass through to clients unchanged.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	ErrCodeValidation   = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"NOT_A_SUPPLIER":      http.StatusForbidden,

	"ALREADY_EXISTS": http.StatusConflict,
	"USERNAME_TAKEN": http.StatusConflict,
	"EMAIL_TAKEN":    http.StatusConflict,
	"SKU_TAKEN":      http.StatusConflict,

	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":  http.StatusUnprocessableEntity,
	"EMPTY_CART":          http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE": http.StatusUnprocessableEntity,

	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_RESET_TOKEN": http.StatusBadRequest,
	"VALIDATION_ERROR":    http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for an error code. Domain
// validation codes all start with INVALID_ and map to 400; anything
// unrecognized is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
