package facet

import (
	"errors"
	"testing"

	"mercator-hq/callisto/pkg/canon"
)

// obj builds an object value from alternating key, value pairs.
func obj(pairs ...any) *canon.Value {
	v := canon.NewMap()
	for i := 0; i < len(pairs); i += 2 {
		v.Set(pairs[i].(string), pairs[i+1].(*canon.Value))
	}
	return v
}

// deviceFleet returns the 5-entry device collection used across the
// filter tests. Two entries are Android with high priority.
func deviceFleet() *canon.Value {
	return canon.NewList(
		obj("device_name", canon.String("pixel-7"), "platform", canon.String("Android"), "test_priority", canon.String("high")),
		obj("device_name", canon.String("iphone-15"), "platform", canon.String("iOS"), "test_priority", canon.String("high")),
		obj("device_name", canon.String("galaxy-s24"), "platform", canon.String("Android"), "test_priority", canon.String("high")),
		obj("device_name", canon.String("pixel-6a"), "platform", canon.String("Android"), "test_priority", canon.String("low")),
		obj("device_name", canon.String("iphone-se"), "platform", canon.String("iOS"), "test_priority", canon.String("medium")),
	)
}

func names(collection *canon.Value) []string {
	out := make([]string, 0, collection.Len())
	for i := 0; i < collection.Len(); i++ {
		out = append(out, collection.At(i).MustGet("device_name").StringValue())
	}
	return out
}

func TestApply_ConjunctionPreservesOrder(t *testing.T) {
	f := NewFilter().
		Where("platform", canon.String("Android")).
		Where("test_priority", canon.String("high"))

	got := names(Apply(deviceFleet(), f))

	want := []string{"pixel-7", "galaxy-s24"}
	if len(got) != len(want) {
		t.Fatalf("match count = %d (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match[%d] = %q, want %q (relative order must hold)", i, got[i], want[i])
		}
	}
}

func TestApply_MembershipClause(t *testing.T) {
	f := NewFilter().
		WhereAny("test_priority", canon.String("high"), canon.String("medium"))

	got := names(Apply(deviceFleet(), f))

	want := []string{"pixel-7", "iphone-15", "galaxy-s24", "iphone-se"}
	if len(got) != len(want) {
		t.Fatalf("match count = %d (%v), want %d", len(got), got, len(want))
	}
}

func TestApply_CaseInsensitiveStrings(t *testing.T) {
	f := NewFilter().Where("platform", canon.String("android"))

	if got := Apply(deviceFleet(), f).Len(); got != 3 {
		t.Errorf("match count = %d, want 3 (platform labels compare case-insensitively)", got)
	}
}

func TestApply_MissingFieldIsNonMatch(t *testing.T) {
	f := NewFilter().Where("nonexistent", canon.String("x"))

	got := Apply(deviceFleet(), f)

	if got.Len() != 0 {
		t.Errorf("match count = %d, want 0 for a field no entry has", got.Len())
	}
	if got.Kind() != canon.KindList {
		t.Errorf("result kind = %q, want an empty list, not an error", got.Kind())
	}
}

func TestApply_NilAndEmptyFilterMatchAll(t *testing.T) {
	fleet := deviceFleet()

	if got := Apply(fleet, nil).Len(); got != fleet.Len() {
		t.Errorf("nil filter match count = %d, want %d", got, fleet.Len())
	}
	if got := Apply(fleet, NewFilter()).Len(); got != fleet.Len() {
		t.Errorf("empty filter match count = %d, want %d", got, fleet.Len())
	}
}

func TestApply_PureAndNonMutating(t *testing.T) {
	fleet := deviceFleet()
	before := fleet.Clone()
	f := NewFilter().Where("platform", canon.String("iOS"))

	first := Apply(fleet, f)
	second := Apply(fleet, f)

	if !first.Equal(second) {
		t.Error("repeated Apply with identical inputs differed")
	}
	if !fleet.Equal(before) {
		t.Error("Apply mutated the collection")
	}
}

func TestApply_NonListCollection(t *testing.T) {
	got := Apply(obj("a", canon.Number(1)), NewFilter())

	if got.Kind() != canon.KindList || got.Len() != 0 {
		t.Errorf("Apply on non-list = %s, want empty list", got)
	}
}

func TestApply_NonObjectEntriesExcluded(t *testing.T) {
	mixed := canon.NewList(
		canon.String("stray"),
		obj("platform", canon.String("Android")),
		canon.Number(7),
	)

	got := Apply(mixed, NewFilter().Where("platform", canon.String("Android")))

	if got.Len() != 1 {
		t.Errorf("match count = %d, want 1 (non-object entries never match)", got.Len())
	}
}

func TestMatch_NumbersCompareNumerically(t *testing.T) {
	entry := obj("ram_gb", canon.Number(8))

	if !NewFilter().Where("ram_gb", canon.Number(8)).Match(entry) {
		t.Error("numeric equality did not match")
	}
	if NewFilter().Where("ram_gb", canon.String("8")).Match(entry) {
		t.Error("number matched a string value")
	}
}

func TestFilter_Validate(t *testing.T) {
	if err := NewFilter().Where("platform", canon.String("iOS")).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for a well-formed filter", err)
	}

	err := NewFilter().Where("", canon.String("x")).Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error for empty field name")
	}
	var facetErr *FacetError
	if !errors.As(err, &facetErr) {
		t.Fatalf("error type = %T, want *FacetError", err)
	}
	if facetErr.Clause != 0 {
		t.Errorf("Clause = %d, want 0", facetErr.Clause)
	}

	if err := NewFilter().WhereAny("platform").Validate(); err == nil {
		t.Error("Validate() = nil, want error for clause with no values")
	}
}

func TestApply_DefectiveClauseMatchesNothing(t *testing.T) {
	f := NewFilter().Where("", canon.String("x"))

	if got := Apply(deviceFleet(), f).Len(); got != 0 {
		t.Errorf("match count = %d, want 0 (defective clause is fail-safe)", got)
	}
}

func TestFilter_String(t *testing.T) {
	f := NewFilter().
		Where("platform", canon.String("Android")).
		WhereAny("test_priority", canon.String("high"), canon.String("medium"))

	got := f.String()
	want := "platform=Android test_priority in {high,medium}"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if got := NewFilter().String(); got != "(all)" {
		t.Errorf("empty String() = %q, want %q", got, "(all)")
	}
}
