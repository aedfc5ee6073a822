package schema

import (
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/callisto/pkg/loader"
)

func writeSchemaFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing schema file: %v", err)
	}
}

func TestLibrary_GetLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	writeSchemaFile(t, dir, "user", `{
		"type": "object",
		"required": ["id"],
		"properties": {"id": {"type": "string", "format": "uuid"}}
	}`)

	lib := NewLibrary(dir, loader.NewLoader())

	if lib.Has("user") {
		t.Error("Has() = true before first Get")
	}

	s, err := lib.Get("user")
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	if s.Name != "user" {
		t.Errorf("Name = %q, want %q", s.Name, "user")
	}
	if !lib.Has("user") {
		t.Error("Has() = false after Get")
	}

	// Replace the file with garbage: the cached schema must keep serving.
	writeSchemaFile(t, dir, "user", `{not json`)
	again, err := lib.Get("user")
	if err != nil {
		t.Fatalf("cached Get() error = %v, want nil", err)
	}
	if again != s {
		t.Error("cached Get() returned a different schema instance")
	}
}

func TestLibrary_GetMissingSchema(t *testing.T) {
	lib := NewLibrary(t.TempDir(), loader.NewLoader())

	_, err := lib.Get("absent")
	if err == nil {
		t.Fatal("Get() error = nil, want not-found error")
	}
	if !loader.IsNotFound(err) {
		t.Errorf("IsNotFound(err) = false, err = %v", err)
	}
}

func TestLibrary_FailedLoadIsNotCached(t *testing.T) {
	dir := t.TempDir()
	writeSchemaFile(t, dir, "user", `{broken`)

	lib := NewLibrary(dir, loader.NewLoader())

	if _, err := lib.Get("user"); err == nil {
		t.Fatal("Get() error = nil, want parse error")
	}
	if lib.Has("user") {
		t.Error("failed load was cached")
	}

	// Fix the file; the next Get must pick it up.
	writeSchemaFile(t, dir, "user", `{"type": "object", "required": ["id"]}`)
	if _, err := lib.Get("user"); err != nil {
		t.Fatalf("Get() after fix error = %v, want nil", err)
	}
}

func TestLibrary_DefectiveSchemaDocument(t *testing.T) {
	dir := t.TempDir()
	writeSchemaFile(t, dir, "user", `{"type": "martian"}`)

	lib := NewLibrary(dir, loader.NewLoader())

	_, err := lib.Get("user")
	if err == nil {
		t.Fatal("Get() error = nil, want DefinitionError")
	}
	if _, ok := err.(*DefinitionError); !ok {
		t.Errorf("error type = %T, want *DefinitionError", err)
	}
}

func TestLibrary_InvalidateAndClear(t *testing.T) {
	dir := t.TempDir()
	writeSchemaFile(t, dir, "user", `{"type": "object", "required": ["id"]}`)
	writeSchemaFile(t, dir, "device", `{"type": "object", "required": ["device_name"]}`)

	lib := NewLibrary(dir, loader.NewLoader())
	if _, err := lib.Get("user"); err != nil {
		t.Fatalf("Get(user) error = %v", err)
	}
	if _, err := lib.Get("device"); err != nil {
		t.Fatalf("Get(device) error = %v", err)
	}

	names := lib.Names()
	if len(names) != 2 || names[0] != "device" || names[1] != "user" {
		t.Errorf("Names() = %v, want [device user]", names)
	}

	if !lib.Invalidate("user") {
		t.Error("Invalidate(user) = false, want true")
	}
	if lib.Invalidate("user") {
		t.Error("second Invalidate(user) = true, want false")
	}
	if lib.Has("user") {
		t.Error("Has(user) = true after Invalidate")
	}
	if !lib.Has("device") {
		t.Error("Invalidate(user) dropped device too")
	}

	lib.Clear()
	if len(lib.Names()) != 0 {
		t.Errorf("Names() after Clear = %v, want empty", lib.Names())
	}
}

func TestLibrary_Register(t *testing.T) {
	lib := NewLibrary(t.TempDir(), nil)

	if err := lib.Register(nil); err == nil {
		t.Error("Register(nil) error = nil, want error")
	}
	if err := lib.Register(&Schema{}); err == nil {
		t.Error("Register(unnamed) error = nil, want error")
	}

	s := &Schema{Name: "inline", Root: &FieldSpec{Type: TypeObject}}
	if err := lib.Register(s); err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}

	got, err := lib.Get("inline")
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	if got != s {
		t.Error("Get() returned a different schema than registered")
	}
}

func TestLibrary_Path(t *testing.T) {
	lib := NewLibrary(filepath.Join("testdata", "schemas"), nil)

	want := filepath.Join("testdata", "schemas", "user.json")
	if got := lib.Path("user"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
