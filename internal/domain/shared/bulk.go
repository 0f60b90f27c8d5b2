package shared

import (
	"github.com/google/uuid"
)

// BulkItemError describes why one id of a bulk operation was not applied
type BulkItemError struct {
	ID      uuid.UUID `json:"id"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// BulkResult is the outcome of a non-atomic bulk operation. Items are applied
// independently; Failed lists exactly the ids that were not applied.
type BulkResult struct {
	Succeeded []uuid.UUID     `json:"succeeded"`
	Failed    []BulkItemError `json:"failed"`
	Changes   ChangeSet       `json:"changes"`
}

// NewBulkResult creates an empty result
func NewBulkResult() *BulkResult {
	return &BulkResult{
		Succeeded: make([]uuid.UUID, 0),
		Failed:    make([]BulkItemError, 0),
	}
}

// Succeed records a successful item
func (r *BulkResult) Succeed(id uuid.UUID, changes ChangeSet) {
	r.Succeeded = append(r.Succeeded, id)
	r.Changes.Merge(changes)
}

// Fail records a failed item, keeping the domain code when err carries one
func (r *BulkResult) Fail(id uuid.UUID, err error) {
	item := BulkItemError{ID: id, Code: "INTERNAL_ERROR", Message: err.Error()}
	if de, ok := AsDomainError(err); ok {
		item.Code = de.Code
		item.Message = de.Message
	}
	r.Failed = append(r.Failed, item)
}

// IsPartial reports whether some but not all items failed
func (r *BulkResult) IsPartial() bool {
	return len(r.Failed) > 0 && len(r.Succeeded) > 0
}

// DedupeIDs removes duplicate ids preserving first occurrence order
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	return appendUnique(make([]uuid.UUID, 0, len(ids)), ids...)
}
