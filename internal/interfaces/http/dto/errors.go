package dto

import (
	"net/http"

	"github.com/jobledger/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain errors keep their own
// codes (NOT_FOUND, INVALID_STATE, ...) on the wire.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenInvalid    = "INVALID_TOKEN"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// kindStatus maps a domain error kind to its HTTP status
var kindStatus = map[shared.ErrorKind]int{
	shared.KindValidation: http.StatusBadRequest,
	shared.KindNotFound:   http.StatusNotFound,
	shared.KindInvariant:  http.StatusUnprocessableEntity,
	shared.KindConflict:   http.StatusConflict,
	shared.KindAtomicity:  http.StatusInternalServerError,
}

// codeStatus covers the HTTP-only codes
var codeStatus = map[string]int{
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:   http.StatusNotFound,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// StatusForKind returns the HTTP status of a domain error kind.
// Unknown kinds are treated as server errors.
func StatusForKind(kind shared.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetHTTPStatus returns the HTTP status for an HTTP-layer error code
func GetHTTPStatus(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts err into a status and error body. Errors that are not
// domain errors become INTERNAL_ERROR without leaking their text.
func FromError(err error, requestID string) (int, *ErrorInfo) {
	if de, ok := shared.AsDomainError(err); ok {
		return StatusForKind(de.Kind), &ErrorInfo{
			Code:      de.Code,
			Message:   de.Message,
			Field:     de.Field,
			RequestID: requestID,
		}
	}
	return http.StatusInternalServerError, &ErrorInfo{
		Code:      ErrCodeInternal,
		Message:   "An unexpected error occurred",
		RequestID: requestID,
	}
}
