// Package canon defines the canonical value tree that every data source
// converges on after loading.
//
// A Value is a tagged union: null, boolean, number, string, array, or
// object. Objects preserve insertion order, which native Go maps do not,
// so downstream consumers (validation, filtering, overlay, rendering)
// see fields in the order the source file declared them. Arrays preserve
// element order. Numbers are float64 regardless of source notation;
// whether a number must be integral is a schema concern, not a
// representation concern.
//
// # Basic Usage
//
// Build values with the constructors and inspect them by switching on
// the kind tag:
//
//	user := canon.NewMap()
//	user.Set("id", canon.String("user_001"))
//	user.Set("active", canon.Bool(true))
//
//	switch v := user.MustGet("id"); v.Kind() {
//	case canon.KindString:
//	    fmt.Println(v.StringValue())
//	case canon.KindNumber:
//	    fmt.Println(v.NumberValue())
//	}
//
// # Immutability Convention
//
// Loaded values are owned by the dataset cache and must be treated as
// immutable. Code that needs a mutable copy takes one with Clone; the
// dataset manager clones on every read so test code can never corrupt
// cached state.
package canon
