package dataset

import (
	"fmt"
	"strings"
)

// NotFoundError reports an entry lookup that matched nothing.
type NotFoundError struct {
	// Collection is the collection reference that was searched.
	Collection string

	// IDField is the field name the lookup compared against.
	IDField string

	// EntryID is the identifier that was not found.
	EntryID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no entry with %s=%q in collection %q", e.IDField, e.EntryID, e.Collection)
}

// EnvironmentError reports a request for an environment the dataset
// does not declare.
type EnvironmentError struct {
	// Dataset is the dataset identifier.
	Dataset string

	// Environment is the unknown environment name.
	Environment string
}

// Error implements the error interface.
func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("dataset %q has no environment %q", e.Dataset, e.Environment)
}

// AmbiguousSourceError reports a bare dataset identifier that matched
// more than one source file.
type AmbiguousSourceError struct {
	// ID is the dataset identifier.
	ID string

	// Candidates are the matching source paths.
	Candidates []string
}

// Error implements the error interface.
func (e *AmbiguousSourceError) Error() string {
	return fmt.Sprintf("dataset %q is ambiguous: matches %s", e.ID, strings.Join(e.Candidates, ", "))
}

// CacheStateError reports a cache operation that violated the entry
// state machine, such as seeding over an in-flight load. It indicates
// a programming defect, not a data problem.
type CacheStateError struct {
	// ID is the dataset identifier.
	ID string

	// Op is the operation that hit the invalid state.
	Op string
}

// Error implements the error interface.
func (e *CacheStateError) Error() string {
	return fmt.Sprintf("cache state violation: %s on in-flight entry %q", e.Op, e.ID)
}
