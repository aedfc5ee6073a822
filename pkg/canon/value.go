package canon

// Kind identifies which arm of the value union a Value holds.
// The string values match the type names used in schema documents.
type Kind string

const (
	KindNull   Kind = "null"
	KindBool   Kind = "boolean"
	KindNumber Kind = "number"
	KindString Kind = "string"
	KindList   Kind = "array"
	KindMap    Kind = "object"
)

// Value is one node of a canonical data tree. The zero Value is null;
// use the constructors for everything else. Object entries keep their
// insertion order.
type Value struct {
	kind    Kind
	boolVal bool
	numVal  float64
	strVal  string
	items   []*Value
	keys    []string
	fields  map[string]*Value
}

// Null returns the null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, boolVal: b}
}

// Number returns a numeric value. All numbers are float64; integer
// sources convert without a separate kind.
func Number(n float64) *Value {
	return &Value{kind: KindNumber, numVal: n}
}

// String returns a string value.
func String(s string) *Value {
	return &Value{kind: KindString, strVal: s}
}

// NewList returns an array value holding the given elements in order.
func NewList(items ...*Value) *Value {
	v := &Value{kind: KindList}
	v.items = append(v.items, items...)
	return v
}

// NewMap returns an empty object value. Populate it with Set.
func NewMap() *Value {
	return &Value{kind: KindMap, fields: make(map[string]*Value)}
}

// Kind returns the union tag. The zero Value reports KindNull.
func (v *Value) Kind() Kind {
	if v == nil || v.kind == "" {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool {
	return v.Kind() == KindNull
}

// BoolValue returns the boolean payload, or false for any other kind.
func (v *Value) BoolValue() bool {
	if v == nil || v.kind != KindBool {
		return false
	}
	return v.boolVal
}

// NumberValue returns the numeric payload, or 0 for any other kind.
func (v *Value) NumberValue() float64 {
	if v == nil || v.kind != KindNumber {
		return 0
	}
	return v.numVal
}

// StringValue returns the string payload, or "" for any other kind.
func (v *Value) StringValue() string {
	if v == nil || v.kind != KindString {
		return ""
	}
	return v.strVal
}

// Len returns the element count for arrays, the entry count for
// objects, and 0 for every other kind.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.keys)
	default:
		return 0
	}
}

// At returns the i-th element of an array value. It returns nil when
// the value is not an array or the index is out of range.
func (v *Value) At(i int) *Value {
	if v == nil || v.kind != KindList || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Append adds elements to an array value. It is a no-op for any other
// kind.
func (v *Value) Append(items ...*Value) {
	if v == nil || v.kind != KindList {
		return
	}
	v.items = append(v.items, items...)
}

// Keys returns the object's keys in insertion order. The returned slice
// is a copy; mutating it does not affect the value.
func (v *Value) Keys() []string {
	if v == nil || v.kind != KindMap {
		return nil
	}
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Get returns the entry for key on an object value, and whether it was
// present.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.kind != KindMap {
		return nil, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// MustGet returns the entry for key, or the null value when absent.
// It never returns nil, which keeps chained lookups safe.
func (v *Value) MustGet(key string) *Value {
	if f, ok := v.Get(key); ok {
		return f
	}
	return Null()
}

// Has reports whether an object value has an entry for key.
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Set inserts or replaces the entry for key on an object value.
// A new key appends to the insertion order; replacing keeps the
// original position. It is a no-op for any other kind.
func (v *Value) Set(key string, val *Value) {
	if v == nil || v.kind != KindMap {
		return
	}
	if _, exists := v.fields[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = val
}

// Delete removes the entry for key from an object value, preserving the
// relative order of the remaining keys.
func (v *Value) Delete(key string) {
	if v == nil || v.kind != KindMap {
		return
	}
	if _, exists := v.fields[key]; !exists {
		return
	}
	delete(v.fields, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Lookup descends through nested object values by key. It returns the
// value at the end of the path and whether every segment resolved.
// An empty path returns v itself.
func (v *Value) Lookup(path ...string) (*Value, bool) {
	cur := v
	for _, seg := range path {
		next, ok := cur.Get(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
