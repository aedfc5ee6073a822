package facet

import (
	"mercator-hq/callisto/pkg/canon"
)

// Overlay deep-merges override onto base and returns a fresh value:
// scalar and list override fields replace the base field, object fields
// merge recursively. Key order is the base order followed by
// override-only keys in override order. Neither input is modified, so
// overlaying a cached record is safe, and the operation is idempotent:
// applying the same override twice yields the same result.
func Overlay(base, override *canon.Value) *canon.Value {
	if base.Kind() != canon.KindMap || override.Kind() != canon.KindMap {
		return override.Clone()
	}

	merged := canon.NewMap()
	for _, key := range base.Keys() {
		baseVal := base.MustGet(key)
		overrideVal, ok := override.Get(key)
		if !ok {
			merged.Set(key, baseVal.Clone())
			continue
		}
		if baseVal.Kind() == canon.KindMap && overrideVal.Kind() == canon.KindMap {
			merged.Set(key, Overlay(baseVal, overrideVal))
			continue
		}
		merged.Set(key, overrideVal.Clone())
	}
	for _, key := range override.Keys() {
		if !base.Has(key) {
			merged.Set(key, override.MustGet(key).Clone())
		}
	}
	return merged
}
