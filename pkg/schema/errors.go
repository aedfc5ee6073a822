package schema

import (
	"fmt"
)

// DefinitionError reports a defect in a schema document itself: an
// unknown type name, an uncompilable pattern, a constraint with the
// wrong shape. Schema documents are authored by hand, so these errors
// carry the path inside the document to point at the defect.
type DefinitionError struct {
	// Schema is the schema name.
	Schema string

	// Path locates the defective node inside the schema document.
	Path string

	// Message describes the defect.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	msg := fmt.Sprintf("schema %q: %s: %s", e.Schema, e.Path, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *DefinitionError) Unwrap() error {
	return e.Cause
}

// ValidationError is the fatal form of a failed validation. The dataset
// manager raises it in strict mode; outside strict mode the Result
// travels with the dataset as a verdict instead.
type ValidationError struct {
	// Dataset is the dataset identifier that failed validation.
	Dataset string

	// Schema is the schema name the dataset was validated against.
	Schema string

	// Result holds the full error list.
	Result *Result
}

// Error implements the error interface. It names the dataset, the
// schema, and the first defect so log lines stay readable; the full
// list is on Result.
func (e *ValidationError) Error() string {
	n := len(e.Result.Errors)
	if n == 0 {
		return fmt.Sprintf("dataset %q failed validation against schema %q", e.Dataset, e.Schema)
	}
	first := e.Result.Errors[0]
	if n == 1 {
		return fmt.Sprintf("dataset %q failed validation against schema %q: %s: %s",
			e.Dataset, e.Schema, first.Path, first.Message)
	}
	return fmt.Sprintf("dataset %q failed validation against schema %q: %s: %s (and %d more)",
		e.Dataset, e.Schema, first.Path, first.Message, n-1)
}
