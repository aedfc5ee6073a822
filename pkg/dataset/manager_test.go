package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/callisto/pkg/canon"
	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/facet"
	"mercator-hq/callisto/pkg/journal"
	"mercator-hq/callisto/pkg/loader"
	"mercator-hq/callisto/pkg/schema"
)

const devicesJSON = `[
	{"id": "pixel-7", "platform": "Android", "test_priority": "high"},
	{"id": "iphone-15", "platform": "iOS", "test_priority": "high"},
	{"id": "galaxy-s24", "platform": "Android", "test_priority": "high"},
	{"id": "pixel-6a", "platform": "Android", "test_priority": "low"},
	{"id": "iphone-se", "platform": "iOS", "test_priority": "medium"}
]`

const usersJSON = `[
	{"id": "u-1", "username": "alice", "role": "admin"},
	{"id": "u-2", "username": "bob", "role": "tester"}
]`

const profileSchemaJSON = `{
	"type": "object",
	"required": ["username", "password"],
	"properties": {
		"username": {"type": "string"},
		"password": {"type": "string", "format": "password"}
	}
}`

const endpointsYAML = `defaults:
  host: localhost
  port: 8080
  tls:
    enabled: false
environments:
  staging:
    host: staging.example.com
    tls:
      enabled: true
  production:
    host: prod.example.com
    port: 443
`

// newTestManager builds a manager over a temp data tree; mutate tweaks
// the config before construction.
func newTestManager(t *testing.T, mutate func(*config.Config)) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "devices.json", devicesJSON)
	writeFile(t, dir, "users.json", usersJSON)
	writeFile(t, dir, "endpoints.yaml", endpointsYAML)
	writeFile(t, dir, "catalog.json", `{"products": [{"id": "p-1"}, {"id": "p-2"}], "meta": {"rev": 3}}`)
	writeFile(t, dir, "profile.json", `{"username": "alice", "password": "Str0ng!Pass@1"}`)
	writeFile(t, filepath.Join(dir, "schemas"), "profile.json", profileSchemaJSON)

	cfg := config.DefaultConfig()
	cfg.Data.BaseDir = dir
	cfg.Journal.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m, dir
}

func TestManager_Get(t *testing.T) {
	m, _ := newTestManager(t, nil)

	ds, err := m.Get(context.Background(), "devices")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ds.ID != "devices" {
		t.Errorf("ID = %q, want devices", ds.ID)
	}
	if ds.Value.Len() != 5 {
		t.Errorf("Len() = %d, want 5", ds.Value.Len())
	}
	if ds.Validated() {
		t.Error("devices has no schema but reports validated")
	}
	if !ds.Valid() {
		t.Error("unvalidated dataset must report valid")
	}
	if ds.LoadID == "" {
		t.Error("LoadID is empty")
	}
}

func TestManager_GetReturnsDeepCopies(t *testing.T) {
	m, _ := newTestManager(t, nil)

	first, err := m.Get(context.Background(), "users")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	first.Value.At(0).Set("username", canon.String("mallory"))

	second, _ := m.Get(context.Background(), "users")
	got, _ := second.Value.At(0).Get("username")
	if got.StringValue() != "alice" {
		t.Errorf("cache mutated through a returned copy: username = %q", got.StringValue())
	}
}

func TestManager_ValidationVerdict(t *testing.T) {
	m, _ := newTestManager(t, nil)

	ds, err := m.Get(context.Background(), "profile")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ds.SchemaName != "profile" {
		t.Errorf("SchemaName = %q, want profile", ds.SchemaName)
	}
	if !ds.Validated() || !ds.Valid() {
		t.Errorf("verdict = %+v, want valid", ds.Verdict)
	}
}

func TestManager_MissingRequiredField(t *testing.T) {
	m, dir := newTestManager(t, nil)
	writeFile(t, dir, "profile.json", `{"username": "alice"}`)

	ds, err := m.Get(context.Background(), "profile")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ds.Valid() {
		t.Fatal("dataset without password reports valid")
	}
	if n := len(ds.Verdict.Errors); n != 1 {
		t.Fatalf("got %d errors, want exactly 1: %v", n, ds.Verdict.Errors)
	}
	e := ds.Verdict.Errors[0]
	if e.Path != "password" || e.Message != "required field missing" {
		t.Errorf("error = (%q, %q), want (password, required field missing)", e.Path, e.Message)
	}
}

func TestManager_StrictModeRejectsInvalid(t *testing.T) {
	m, dir := newTestManager(t, func(cfg *config.Config) {
		cfg.Validation.Strict = true
	})
	writeFile(t, dir, "profile.json", `{"username": "alice"}`)

	_, err := m.Get(context.Background(), "profile")
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Get() error = %v, want ValidationError", err)
	}
	if verr.Dataset != "profile" || verr.Schema != "profile" {
		t.Errorf("ValidationError = %+v", verr)
	}

	// The rejected dataset must not be cached: fixing the file and
	// retrying succeeds without any invalidation.
	writeFile(t, dir, "profile.json", `{"username": "alice", "password": "Str0ng!Pass@1"}`)
	ds, err := m.Get(context.Background(), "profile")
	if err != nil {
		t.Fatalf("Get() after fix error = %v", err)
	}
	if !ds.Valid() {
		t.Errorf("fixed dataset verdict = %+v", ds.Verdict)
	}
}

func TestManager_GetByID(t *testing.T) {
	m, _ := newTestManager(t, nil)

	entry, err := m.GetByID(context.Background(), "users", "alice", "username")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	role, _ := entry.Get("role")
	if role.StringValue() != "admin" {
		t.Errorf("role = %q, want admin", role.StringValue())
	}

	// Default identifier field is "id".
	entry, err = m.GetByID(context.Background(), "users", "u-2", "")
	if err != nil {
		t.Fatalf("GetByID() with default field error = %v", err)
	}
	name, _ := entry.Get("username")
	if name.StringValue() != "bob" {
		t.Errorf("username = %q, want bob", name.StringValue())
	}
}

func TestManager_GetByIDNotFound(t *testing.T) {
	m, _ := newTestManager(t, nil)

	_, err := m.GetByID(context.Background(), "users", "carol", "username")
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("GetByID() error = %v, want NotFoundError", err)
	}
	if nfErr.Collection != "users" || nfErr.EntryID != "carol" {
		t.Errorf("NotFoundError = %+v", nfErr)
	}
}

func TestManager_GetFiltered(t *testing.T) {
	m, _ := newTestManager(t, nil)

	f := facet.NewFilter().
		Where("platform", canon.String("Android")).
		Where("test_priority", canon.String("high"))

	got, err := m.GetFiltered(context.Background(), "devices", f)
	if err != nil {
		t.Fatalf("GetFiltered() error = %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("GetFiltered() matched %d devices, want 2", got.Len())
	}
	// Collection order preserved.
	for i, want := range []string{"pixel-7", "galaxy-s24"} {
		id, _ := got.At(i).Get("id")
		if id.StringValue() != want {
			t.Errorf("match[%d] = %q, want %q", i, id.StringValue(), want)
		}
	}
}

func TestManager_GetFilteredNilFilter(t *testing.T) {
	m, _ := newTestManager(t, nil)

	got, err := m.GetFiltered(context.Background(), "devices", nil)
	if err != nil {
		t.Fatalf("GetFiltered(nil) error = %v", err)
	}
	if got.Len() != 5 {
		t.Errorf("GetFiltered(nil) matched %d devices, want all 5", got.Len())
	}
}

func TestManager_CollectionDottedPath(t *testing.T) {
	m, _ := newTestManager(t, nil)

	products, err := m.Collection(context.Background(), "catalog.products")
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	if products.Len() != 2 {
		t.Errorf("products Len() = %d, want 2", products.Len())
	}

	_, err = m.Collection(context.Background(), "catalog.missing.path")
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("Collection() with bad path error = %v, want NotFoundError", err)
	}
}

func TestManager_GetWithEnvironment(t *testing.T) {
	m, _ := newTestManager(t, nil)

	staging, err := m.GetWithEnvironment(context.Background(), "endpoints", "staging")
	if err != nil {
		t.Fatalf("GetWithEnvironment() error = %v", err)
	}

	host, _ := staging.Get("host")
	if host.StringValue() != "staging.example.com" {
		t.Errorf("host = %q, want staging.example.com", host.StringValue())
	}
	// Defaults survive where the environment is silent.
	port, _ := staging.Get("port")
	if port.NumberValue() != 8080 {
		t.Errorf("port = %v, want 8080", port.NumberValue())
	}
	// Nested maps merge rather than replace.
	enabled, ok := staging.Lookup("tls", "enabled")
	if !ok || !enabled.BoolValue() {
		t.Error("tls.enabled not overridden to true")
	}
}

func TestManager_GetWithEnvironmentFallsBackToConfigured(t *testing.T) {
	m, _ := newTestManager(t, func(cfg *config.Config) {
		cfg.Data.Environment = "production"
	})

	prod, err := m.GetWithEnvironment(context.Background(), "endpoints", "")
	if err != nil {
		t.Fatalf("GetWithEnvironment(\"\") error = %v", err)
	}
	host, _ := prod.Get("host")
	if host.StringValue() != "prod.example.com" {
		t.Errorf("host = %q, want prod.example.com", host.StringValue())
	}
}

func TestManager_GetWithEnvironmentUnknown(t *testing.T) {
	m, _ := newTestManager(t, nil)

	_, err := m.GetWithEnvironment(context.Background(), "endpoints", "qa")
	var envErr *EnvironmentError
	if !errors.As(err, &envErr) {
		t.Fatalf("GetWithEnvironment() error = %v, want EnvironmentError", err)
	}
	if envErr.Dataset != "endpoints" || envErr.Environment != "qa" {
		t.Errorf("EnvironmentError = %+v", envErr)
	}
}

func TestManager_InvalidateForcesReload(t *testing.T) {
	store := journal.NewMemoryStore(nil)
	dir := t.TempDir()
	writeFile(t, dir, "users.json", usersJSON)

	cfg := config.DefaultConfig()
	cfg.Data.BaseDir = dir
	m, err := NewManager(cfg, &Options{JournalStore: store})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	m.Get(context.Background(), "users")
	m.Get(context.Background(), "users")
	if !m.Invalidate("users") {
		t.Fatal("Invalidate() = false for cached dataset")
	}
	m.Get(context.Background(), "users")
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	count, err := store.Count(context.Background(), &journal.Query{Dataset: "users", Outcome: journal.OutcomeLoaded})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("journal shows %d loads, want 2 (one per cache generation)", count)
	}
}

func TestManager_JournalRecordsFailure(t *testing.T) {
	store := journal.NewMemoryStore(nil)
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"unterminated": `)

	cfg := config.DefaultConfig()
	cfg.Data.BaseDir = dir
	m, err := NewManager(cfg, &Options{JournalStore: store})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	if _, err := m.Get(context.Background(), "broken"); err == nil {
		t.Fatal("Get() on malformed source returned nil error")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	records, err := store.Query(context.Background(), &journal.Query{Outcome: journal.OutcomeFailed})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("journal holds %d failed records, want 1", len(records))
	}
	if records[0].Dataset != "broken" || records[0].ErrorDetail == "" {
		t.Errorf("failure record = %+v", records[0])
	}
}

func TestManager_ListAndInfo(t *testing.T) {
	m, _ := newTestManager(t, nil)

	infos, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	want := []string{"catalog", "devices", "endpoints", "profile", "users"}
	if len(ids) != len(want) {
		t.Fatalf("List() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	info, err := m.Info("profile")
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.SchemaName != "profile" {
		t.Errorf("Info().SchemaName = %q, want profile", info.SchemaName)
	}
}

func TestManager_Validate(t *testing.T) {
	m, _ := newTestManager(t, nil)

	value := canon.NewMap()
	value.Set("username", canon.String("alice"))

	result, err := m.Validate(context.Background(), value, "profile")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Valid() {
		t.Error("value without password reported valid")
	}

	if _, err := m.Validate(context.Background(), value, "nonexistent"); err == nil {
		t.Error("Validate() against missing schema returned nil error")
	}
}

func TestManager_FailedLoadRetries(t *testing.T) {
	m, dir := newTestManager(t, nil)
	path := filepath.Join(dir, "flaky.json")

	if err := os.WriteFile(path, []byte(`{"bad":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(context.Background(), "flaky"); err == nil {
		t.Fatal("Get() on malformed source returned nil error")
	}

	if err := os.WriteFile(path, []byte(`{"good": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := m.Get(context.Background(), "flaky")
	if err != nil {
		t.Fatalf("Get() after fix error = %v", err)
	}
	good, _ := ds.Value.Get("good")
	if !good.BoolValue() {
		t.Error("retried load returned stale content")
	}
}

func TestManager_ExplicitFilenameBesideSibling(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.json", usersJSON)
	writeFile(t, dir, "users.csv", "id,username\nu-9,zoe\n")

	cfg := config.DefaultConfig()
	cfg.Data.BaseDir = dir
	cfg.Journal.Enabled = false
	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })

	// A bare id cannot choose between the two siblings.
	_, err = m.Get(context.Background(), "users")
	var ambiguous *AmbiguousSourceError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Get(users) error = %v, want AmbiguousSourceError", err)
	}

	// An explicit filename resolves directly past the ambiguity.
	ds, err := m.Get(context.Background(), "users.json")
	if err != nil {
		t.Fatalf("Get(users.json) error = %v", err)
	}
	if ds.ID != "users" {
		t.Errorf("ID = %q, want users", ds.ID)
	}
	if ds.Source.Format != loader.FormatJSON {
		t.Errorf("Format = %q, want %q", ds.Source.Format, loader.FormatJSON)
	}
	if ds.Value.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ds.Value.Len())
	}
}
