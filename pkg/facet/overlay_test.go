package facet

import (
	"testing"

	"mercator-hq/callisto/pkg/canon"
)

func TestOverlay_ScalarsReplaceMapsMerge(t *testing.T) {
	base := obj(
		"username", canon.String("shared_user"),
		"password", canon.String("Defau1t@Pass"),
		"profile", obj(
			"locale", canon.String("en-US"),
			"timeout_seconds", canon.Number(30),
		),
	)
	override := obj(
		"password", canon.String("Stag1ng@Pass"),
		"profile", obj("timeout_seconds", canon.Number(90)),
		"endpoint", canon.String("https://staging.example.com"),
	)

	got := Overlay(base, override)

	if v := got.MustGet("username").StringValue(); v != "shared_user" {
		t.Errorf("username = %q, want base value kept", v)
	}
	if v := got.MustGet("password").StringValue(); v != "Stag1ng@Pass" {
		t.Errorf("password = %q, want override value", v)
	}
	profile := got.MustGet("profile")
	if v := profile.MustGet("locale").StringValue(); v != "en-US" {
		t.Errorf("profile.locale = %q, want base value kept through merge", v)
	}
	if v := profile.MustGet("timeout_seconds").NumberValue(); v != 90 {
		t.Errorf("profile.timeout_seconds = %v, want 90", v)
	}
	if v := got.MustGet("endpoint").StringValue(); v != "https://staging.example.com" {
		t.Errorf("endpoint = %q, want override-only key added", v)
	}
}

func TestOverlay_KeyOrder(t *testing.T) {
	base := obj("a", canon.Number(1), "b", canon.Number(2))
	override := obj("d", canon.Number(4), "b", canon.Number(20), "c", canon.Number(3))

	got := Overlay(base, override)

	want := []string{"a", "b", "d", "c"}
	keys := got.Keys()
	if len(keys) != len(want) {
		t.Fatalf("key count = %d, want %d", len(keys), len(want))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %q, want %q (base order, then override-only keys)", i, keys[i], k)
		}
	}
}

func TestOverlay_ListsReplaceWholesale(t *testing.T) {
	base := obj("tags", canon.NewList(canon.String("smoke"), canon.String("regression")))
	override := obj("tags", canon.NewList(canon.String("staging")))

	got := Overlay(base, override)

	tags := got.MustGet("tags")
	if tags.Len() != 1 || tags.At(0).StringValue() != "staging" {
		t.Errorf("tags = %s, want override list verbatim, not concatenation", tags)
	}
}

func TestOverlay_Idempotent(t *testing.T) {
	base := obj(
		"name", canon.String("base"),
		"nested", obj("x", canon.Number(1), "y", canon.Number(2)),
	)
	override := obj(
		"nested", obj("y", canon.Number(20)),
		"extra", canon.Bool(true),
	)

	once := Overlay(base, override)
	twice := Overlay(once, override)

	if !once.Equal(twice) {
		t.Errorf("overlay not idempotent:\nonce  = %s\ntwice = %s", once, twice)
	}
}

func TestOverlay_DoesNotMutateInputs(t *testing.T) {
	base := obj("nested", obj("x", canon.Number(1)))
	override := obj("nested", obj("x", canon.Number(2)))
	baseBefore := base.Clone()
	overrideBefore := override.Clone()

	got := Overlay(base, override)

	if !base.Equal(baseBefore) {
		t.Error("Overlay mutated base")
	}
	if !override.Equal(overrideBefore) {
		t.Error("Overlay mutated override")
	}

	// The result shares no structure with either input.
	got.MustGet("nested").Set("x", canon.Number(99))
	if !base.Equal(baseBefore) || !override.Equal(overrideBefore) {
		t.Error("mutating the result changed an input")
	}
}

func TestOverlay_TypeMismatchReplaces(t *testing.T) {
	base := obj("value", obj("nested", canon.Number(1)))
	override := obj("value", canon.String("flat"))

	got := Overlay(base, override)

	if v := got.MustGet("value").StringValue(); v != "flat" {
		t.Errorf("value = %q, want scalar override to replace the object", v)
	}
}

func TestOverlay_NonObjectInputs(t *testing.T) {
	got := Overlay(canon.String("base"), obj("a", canon.Number(1)))

	if got.Kind() != canon.KindMap || got.MustGet("a").NumberValue() != 1 {
		t.Errorf("Overlay with non-object base = %s, want the override", got)
	}
}
