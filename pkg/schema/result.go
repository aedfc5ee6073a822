package schema

import (
	"fmt"
	"strings"
)

// FieldError is one validation defect: the path of the offending field
// and a message describing what the schema expected.
type FieldError struct {
	Path    string
	Message string
}

// String returns "path: message".
func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// FieldWarning is a non-fatal validation note, such as a format name the
// validator does not recognize. Warnings never make a result invalid.
type FieldWarning struct {
	Path    string
	Message string
}

// String returns "path: message".
func (w FieldWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// Result is the outcome of one validation pass. Every defect is
// collected rather than failing fast, so a caller sees the complete
// list in one pass. A Result is data, not control flow; wrap it in a
// ValidationError when validation must be fatal.
type Result struct {
	Errors   []FieldError
	Warnings []FieldWarning
}

// Valid reports whether the validated value satisfied the schema.
// Warnings do not affect validity.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// addError appends a defect to the result.
func (r *Result) addError(path, format string, args ...any) {
	r.Errors = append(r.Errors, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// addWarning appends a non-fatal note to the result.
func (r *Result) addWarning(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, FieldWarning{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Summary renders the result as a single line for logs: "valid",
// or "3 error(s): first; second; ...".
func (r *Result) Summary() string {
	if r.Valid() {
		return "valid"
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.String())
	}
	return fmt.Sprintf("%d error(s): %s", len(r.Errors), strings.Join(msgs, "; "))
}
