package schema

import (
	"regexp"

	"mercator-hq/callisto/pkg/canon"
)

// Type names a declared value type in a schema document. The names match
// canon.Kind strings, with "integer" added as a constrained number.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeNull    = "null"
)

// Schema is a named, compiled validation schema. It is built once from a
// schema document and never mutated afterwards, so it is safe to share
// across goroutines.
type Schema struct {
	// Name is the schema identifier, typically the file stem of the
	// schema document ("user" for schemas/user.json).
	Name string

	// Title is the optional human-readable title from the document.
	Title string

	// Strict, when non-nil, overrides the global strict-validation mode
	// for datasets bound to this schema.
	Strict *bool

	// Root is the constraint tree applied to the dataset's root value.
	Root *FieldSpec
}

// FieldSpec is one node of the compiled constraint tree. Every constraint
// the schema document declares for a field path is resolved here at parse
// time; validation never re-reads the document.
type FieldSpec struct {
	// Type is the declared value type, or "" when the field accepts any
	// type.
	Type string

	// Nullable permits an explicit null in place of the declared type.
	Nullable bool

	// Format names a built-in string format check (email, phone, url,
	// uuid, date, datetime, username, password).
	Format string

	// Pattern is the compiled regex a string value must match.
	// PatternSource keeps the original expression for error messages.
	Pattern       *regexp.Regexp
	PatternSource string

	// Enum restricts the value to one of the listed values.
	Enum []*canon.Value

	// String length bounds.
	MinLength *int
	MaxLength *int

	// Numeric bounds (inclusive).
	Minimum *float64
	Maximum *float64

	// Array size bounds.
	MinItems *int
	MaxItems *int

	// Required lists the entry names an object value must carry.
	Required []string

	// Properties holds the per-entry specs of an object value;
	// PropertyOrder preserves the declaration order of the document.
	Properties    map[string]*FieldSpec
	PropertyOrder []string

	// Items is the spec applied to every element of an array value.
	Items *FieldSpec
}

// HasConstraints reports whether the spec declares anything beyond an
// unconstrained value. A schema document with an empty spec validates
// everything, which usually indicates a typo in the document.
func (f *FieldSpec) HasConstraints() bool {
	if f == nil {
		return false
	}
	return f.Type != "" || f.Format != "" || f.Pattern != nil ||
		len(f.Enum) > 0 || f.MinLength != nil || f.MaxLength != nil ||
		f.Minimum != nil || f.Maximum != nil || f.MinItems != nil ||
		f.MaxItems != nil || len(f.Required) > 0 ||
		len(f.Properties) > 0 || f.Items != nil
}

// validTypeNames is the set of type names a schema document may declare.
var validTypeNames = map[string]bool{
	TypeString:  true,
	TypeInteger: true,
	TypeNumber:  true,
	TypeBoolean: true,
	TypeArray:   true,
	TypeObject:  true,
	TypeNull:    true,
}
