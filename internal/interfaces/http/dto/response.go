package dto

import (
	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/domain/shared"
)

// Response is the envelope of every API response
type Response struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Changes *shared.ChangeSet `json:"changes,omitempty"`
	Error   *ErrorInfo        `json:"error,omitempty"`
	Meta    *Meta             `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	Field     string             `json:"field,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// BulkResponse reports which ids of a bulk call were applied. The touched
// ids travel in the envelope's changes.
type BulkResponse struct {
	Succeeded []uuid.UUID            `json:"succeeded"`
	Failed    []shared.BulkItemError `json:"failed"`
	Partial   bool                   `json:"partial"`
}

// NewBulkResponse creates a BulkResponse from r
func NewBulkResponse(r *shared.BulkResult) BulkResponse {
	return BulkResponse{Succeeded: r.Succeeded, Failed: r.Failed, Partial: r.IsPartial()}
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewChangeResponse creates a success response carrying the touched ids.
// An empty change set is omitted.
func NewChangeResponse(data any, changes shared.ChangeSet) Response {
	resp := NewSuccessResponse(data)
	if !changes.IsEmpty() {
		resp.Changes = &changes
	}
	return resp
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewValidationErrorResponse creates a 400 body listing the rejected fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	info := &ErrorInfo{
		Code:      ErrCodeValidation,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	}
	if len(details) == 1 {
		info.Field = details[0].Field
	}
	return Response{Success: false, Error: info}
}

// Pagination defaults shared by list endpoints
const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// Paging normalizes page and pageSize the way the repositories do
func Paging(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}
