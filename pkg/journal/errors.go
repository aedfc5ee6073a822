package journal

import "fmt"

// StoreError represents a failure in a journal storage backend.
type StoreError struct {
	Backend   string // Backend type ("memory", "sqlite")
	Operation string // Operation that failed ("append", "query", "delete", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("journal store error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
