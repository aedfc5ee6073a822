package facet

import (
	"fmt"
	"strings"

	"mercator-hq/callisto/pkg/canon"
)

// clause is one predicate: the entry field must equal one of the
// allowed values.
type clause struct {
	field  string
	values []*canon.Value
}

// Filter is a conjunction of clauses over entry fields. The zero Filter
// matches everything; build it up with Where and WhereAny:
//
//	f := facet.NewFilter().
//	    Where("platform", canon.String("Android")).
//	    WhereAny("priority", canon.String("high"), canon.String("medium"))
//
// A Filter holds no state beyond its clauses and is safe to share once
// built.
type Filter struct {
	clauses []clause
}

// NewFilter creates an empty filter that matches every entry.
func NewFilter() *Filter {
	return &Filter{}
}

// Where adds an equality clause: the entry field must equal value.
func (f *Filter) Where(field string, value *canon.Value) *Filter {
	f.clauses = append(f.clauses, clause{field: field, values: []*canon.Value{value}})
	return f
}

// WhereAny adds a membership clause: the entry field must equal one of
// the given values.
func (f *Filter) WhereAny(field string, values ...*canon.Value) *Filter {
	f.clauses = append(f.clauses, clause{field: field, values: values})
	return f
}

// Len returns the clause count.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.clauses)
}

// Validate checks the filter for structural defects: clauses with an
// empty field name or no values. Match treats such clauses as matching
// nothing, so a defective filter yields an empty result rather than a
// wrong one; Validate lets callers surface the defect instead.
func (f *Filter) Validate() error {
	if f == nil {
		return nil
	}
	for i, c := range f.clauses {
		if c.field == "" {
			return &FacetError{Clause: i, Message: "field name cannot be empty"}
		}
		if len(c.values) == 0 {
			return &FacetError{Clause: i, Message: "clause has no values"}
		}
		for _, v := range c.values {
			if v == nil {
				return &FacetError{Clause: i, Message: "clause value cannot be nil"}
			}
		}
	}
	return nil
}

// Match reports whether an entry satisfies every clause. Entries that
// are not objects never match, and neither do entries missing a clause
// field.
func (f *Filter) Match(entry *canon.Value) bool {
	if entry.Kind() != canon.KindMap {
		return false
	}
	for _, c := range f.clauses {
		if c.field == "" || len(c.values) == 0 {
			return false
		}
		got, ok := entry.Get(c.field)
		if !ok {
			return false
		}
		if !matchesAny(got, c.values) {
			return false
		}
	}
	return true
}

// Apply returns the ordered subsequence of collection entries matching
// the filter. The result is a fresh list holding the original entry
// values; the collection itself is never modified. A nil filter matches
// everything.
func Apply(collection *canon.Value, f *Filter) *canon.Value {
	result := canon.NewList()
	if collection.Kind() != canon.KindList {
		return result
	}
	for i := 0; i < collection.Len(); i++ {
		entry := collection.At(i)
		if f == nil || f.Match(entry) {
			result.Append(entry)
		}
	}
	return result
}

// String renders the filter for logs: "platform=Android priority in {high,medium}".
func (f *Filter) String() string {
	if f.Len() == 0 {
		return "(all)"
	}
	parts := make([]string, 0, len(f.clauses))
	for _, c := range f.clauses {
		if len(c.values) == 1 {
			parts = append(parts, fmt.Sprintf("%s=%s", c.field, renderValue(c.values[0])))
			continue
		}
		vals := make([]string, 0, len(c.values))
		for _, v := range c.values {
			vals = append(vals, renderValue(v))
		}
		parts = append(parts, fmt.Sprintf("%s in {%s}", c.field, strings.Join(vals, ",")))
	}
	return strings.Join(parts, " ")
}

// matchesAny reports whether got equals one of the allowed values.
func matchesAny(got *canon.Value, values []*canon.Value) bool {
	for _, want := range values {
		if valuesEqual(got, want) {
			return true
		}
	}
	return false
}

// valuesEqual compares a facet value: strings case-insensitively (the
// convention for platform/priority labels), everything else by exact
// canonical equality.
func valuesEqual(got, want *canon.Value) bool {
	if got.Kind() == canon.KindString && want.Kind() == canon.KindString {
		return strings.EqualFold(got.StringValue(), want.StringValue())
	}
	return got.Equal(want)
}

// renderValue renders scalars bare and containers as JSON.
func renderValue(v *canon.Value) string {
	if v.Kind() == canon.KindString {
		return v.StringValue()
	}
	return v.String()
}
