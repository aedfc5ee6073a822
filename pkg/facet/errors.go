package facet

import "fmt"

// FacetError reports a structurally unusable filter, such as a clause
// with an empty field name. A clause whose field is merely absent from
// an entry is not an error; it simply does not match.
type FacetError struct {
	// Clause is the zero-based index of the defective clause.
	Clause int

	// Message describes the defect.
	Message string
}

// Error implements the error interface.
func (e *FacetError) Error() string {
	return fmt.Sprintf("filter clause %d: %s", e.Clause, e.Message)
}
