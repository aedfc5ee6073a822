package canon

// Equal reports whether two values are deeply equal. Arrays compare
// element by element; objects compare entry by entry including key
// order, so two trees are equal only when a source file declaring them
// would be field-for-field identical. A nil *Value equals null.
func (v *Value) Equal(other *Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindNumber:
		return v.numVal == other.numVal
	case KindString:
		return v.strVal == other.strVal
	case KindList:
		if len(v.items) != len(other.items) {
			return false
		}
		for i, item := range v.items {
			if !item.Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for i, key := range v.keys {
			if other.keys[i] != key {
				return false
			}
			if !v.fields[key].Equal(other.fields[key]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of the value. The copy shares no state with
// the original, so mutating it cannot affect cached data.
func (v *Value) Clone() *Value {
	if v == nil {
		return Null()
	}
	switch v.kind {
	case KindList:
		out := &Value{kind: KindList, items: make([]*Value, len(v.items))}
		for i, item := range v.items {
			out.items[i] = item.Clone()
		}
		return out
	case KindMap:
		out := NewMap()
		for _, key := range v.keys {
			out.Set(key, v.fields[key].Clone())
		}
		return out
	default:
		cp := *v
		return &cp
	}
}
