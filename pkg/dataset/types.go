package dataset

import (
	"time"

	"mercator-hq/callisto/pkg/canon"
	"mercator-hq/callisto/pkg/loader"
	"mercator-hq/callisto/pkg/schema"
)

// Dataset is one loaded data source: its canonical value tree plus the
// metadata of the load that produced it. A Dataset is immutable once
// cached; the facade hands out deep copies.
type Dataset struct {
	// ID is the dataset identifier the caller asked for.
	ID string

	// Source is the resolved file the dataset was loaded from.
	Source loader.SourceRef

	// Value is the canonical value tree.
	Value *canon.Value

	// SchemaName is the bound schema, or "" when the dataset is
	// unvalidated.
	SchemaName string

	// Verdict is the validation result, or nil when no schema was
	// bound. It is computed exactly once per load.
	Verdict *schema.Result

	// LoadID is the UUID of the load that produced this dataset. It
	// correlates with the journal record.
	LoadID string

	// LoadedAt is when the load completed.
	LoadedAt time.Time
}

// Validated reports whether the dataset was checked against a schema.
func (d *Dataset) Validated() bool {
	return d.Verdict != nil
}

// Valid reports whether the dataset passed validation. Unvalidated
// datasets report true; absence of a schema is not a defect.
func (d *Dataset) Valid() bool {
	return d.Verdict == nil || d.Verdict.Valid()
}

// clone returns a deep copy: the value tree is cloned and the verdict's
// slices are copied, so the caller cannot reach cached state.
func (d *Dataset) clone() *Dataset {
	if d == nil {
		return nil
	}
	c := *d
	c.Value = d.Value.Clone()
	if d.Verdict != nil {
		v := &schema.Result{
			Errors:   make([]schema.FieldError, len(d.Verdict.Errors)),
			Warnings: make([]schema.FieldWarning, len(d.Verdict.Warnings)),
		}
		copy(v.Errors, d.Verdict.Errors)
		copy(v.Warnings, d.Verdict.Warnings)
		c.Verdict = v
	}
	return &c
}

// DatasetInfo describes one discovered dataset without loading it.
type DatasetInfo struct {
	// ID is the dataset identifier (the file stem).
	ID string

	// Path is the source file path.
	Path string

	// Format is the source format.
	Format loader.Format

	// SchemaName is the bound schema, or "" when none is bound.
	SchemaName string
}
