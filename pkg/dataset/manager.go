package dataset

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/callisto/pkg/canon"
	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/facet"
	"mercator-hq/callisto/pkg/journal"
	"mercator-hq/callisto/pkg/loader"
	"mercator-hq/callisto/pkg/schema"
	"mercator-hq/callisto/pkg/telemetry/logging"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

// Manager is the facade over the whole data layer: catalog resolution,
// format loading, schema validation, caching, facet filtering, and
// environment overlays. It is safe for concurrent use from parallel
// test workers.
type Manager struct {
	config  *config.Config
	loader  *loader.Loader
	library *schema.Library
	catalog *Catalog
	cache   *Cache
	metrics *metrics.Collector
	logger  *logging.Logger

	journalStore journal.Store
	ownStore     bool
	recorder     *journal.Recorder
	pruner       *journal.Pruner

	watcher *Watcher

	closeOnce sync.Once
	closeErr  error
}

// Options carries optional collaborators for NewManager. Every field
// may be zero.
type Options struct {
	// Logger receives the manager's log output. Defaults to a discard
	// logger.
	Logger *logging.Logger

	// Metrics receives cache, load, and validation metrics. May be nil.
	Metrics *metrics.Collector

	// JournalStore overrides the configured journal backend. The
	// caller keeps ownership; Close will not close it.
	JournalStore journal.Store
}

// NewManager builds a manager from configuration. A nil config uses
// the defaults; a nil opts is treated as empty.
func NewManager(cfg *config.Config, opts *Options) (*Manager, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	} else {
		config.ApplyDefaults(cfg)
	}
	if opts == nil {
		opts = &Options{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	ldr := loader.NewLoader().
		WithMaxFileSize(cfg.Data.MaxFileSize).
		WithTypedRows(cfg.Data.TypedRows)

	schemasDir := cfg.Data.SchemasDirOrDefault()

	m := &Manager{
		config:  cfg,
		loader:  ldr,
		library: schema.NewLibrary(schemasDir, ldr),
		catalog: NewCatalog(cfg.Data.BaseDir, schemasDir, cfg.Data.SchemaBindings),
		cache:   NewCache(opts.Metrics),
		metrics: opts.Metrics,
		logger:  logger.Component("dataset.manager"),
	}

	if cfg.Journal.Enabled {
		store := opts.JournalStore
		if store == nil {
			var err error
			store, err = journal.NewStore(&cfg.Journal, logger)
			if err != nil {
				return nil, err
			}
			m.ownStore = true
		}
		m.journalStore = store
		m.recorder = journal.NewRecorder(store, cfg.Journal.BufferSize, logger)

		if cfg.Journal.Retention.Enabled {
			m.pruner = journal.NewPruner(store, &cfg.Journal.Retention, logger)
			if err := m.pruner.Start(context.Background()); err != nil {
				m.closeJournal()
				return nil, err
			}
		}
	}

	if cfg.Watch.Enabled {
		w, err := NewWatcher(&WatcherConfig{
			DataDir:          cfg.Data.BaseDir,
			SchemasDir:       schemasDir,
			DebounceInterval: cfg.Watch.DebounceInterval,
		}, m.onDataChange, m.onSchemaChange, logger)
		if err != nil {
			// The watcher is a convenience; a missing inotify
			// backend must not take the data layer down.
			m.logger.Warn("file watcher unavailable", "error", err)
		} else if err := w.Start(); err != nil {
			m.logger.Warn("file watcher failed to start", "error", err)
			w.Stop()
		} else {
			m.watcher = w
		}
	}

	m.logger.Info("dataset manager ready",
		"data_dir", cfg.Data.BaseDir,
		"schemas_dir", schemasDir,
		"validation", cfg.Validation.Enabled,
		"strict", cfg.Validation.Strict,
		"watch", m.watcher != nil,
		"journal", cfg.Journal.Enabled,
	)

	return m, nil
}

// Get returns the named dataset, loading and validating it on first
// access. The returned dataset is a deep copy; mutating it never
// affects the cache.
func (m *Manager) Get(ctx context.Context, id string) (*Dataset, error) {
	ds, err := m.getOrLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	return ds.clone(), nil
}

// getOrLoad caches under the stemmed identifier but loads with the
// caller's original reference, so an explicit filename bypasses the
// bare-id directory scan.
func (m *Manager) getOrLoad(ctx context.Context, id string) (*Dataset, error) {
	return m.cache.GetOrLoad(ctx, stem(id), func(ctx context.Context, _ string) (*Dataset, error) {
		return m.load(ctx, id)
	})
}

// GetByID returns the entry whose idField matches entryID in the named
// collection. An empty idField defaults to "id". Non-string identifier
// fields match on their canonical rendering, so a numeric id 42
// matches "42".
func (m *Manager) GetByID(ctx context.Context, collection, entryID, idField string) (*canon.Value, error) {
	if idField == "" {
		idField = "id"
	}

	list, err := m.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	for i := 0; i < list.Len(); i++ {
		entry := list.At(i)
		if entry.Kind() != canon.KindMap {
			continue
		}
		field, ok := entry.Get(idField)
		if !ok {
			continue
		}
		if entryMatchesID(field, entryID) {
			return entry.Clone(), nil
		}
	}
	return nil, &NotFoundError{Collection: collection, IDField: idField, EntryID: entryID}
}

// GetFiltered returns the entries of the named collection matching the
// filter, in collection order. A nil filter returns every entry. The
// result is a deep copy.
func (m *Manager) GetFiltered(ctx context.Context, collection string, f *facet.Filter) (*canon.Value, error) {
	if f != nil {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	list, err := m.collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	return facet.Apply(list, f).Clone(), nil
}

// GetWithEnvironment returns the dataset's environment view:
// Overlay(defaults, environments[name]). An empty environment falls
// back to the configured active environment.
func (m *Manager) GetWithEnvironment(ctx context.Context, id, environment string) (*canon.Value, error) {
	if environment == "" {
		environment = m.config.Data.Environment
	}
	if environment == "" {
		return nil, &EnvironmentError{Dataset: stem(id), Environment: ""}
	}

	ds, err := m.getOrLoad(ctx, id)
	if err != nil {
		return nil, err
	}

	envs, ok := ds.Value.Get("environments")
	if !ok {
		return nil, &EnvironmentError{Dataset: ds.ID, Environment: environment}
	}
	override, ok := envs.Get(environment)
	if !ok {
		return nil, &EnvironmentError{Dataset: ds.ID, Environment: environment}
	}

	defaults, _ := ds.Value.Get("defaults")
	// Overlay clones both inputs, so the cached tree stays untouched.
	return facet.Overlay(defaults, override), nil
}

// Collection resolves a collection reference — a dataset identifier or
// "dataset.path.to.list" — and returns a deep copy of the value at
// that path.
func (m *Manager) Collection(ctx context.Context, ref string) (*canon.Value, error) {
	list, err := m.collection(ctx, ref)
	if err != nil {
		return nil, err
	}
	return list.Clone(), nil
}

// Validate checks a value against a named schema without touching the
// cache.
func (m *Manager) Validate(ctx context.Context, value *canon.Value, schemaName string) (*schema.Result, error) {
	s, err := m.library.Get(schemaName)
	if err != nil {
		return nil, err
	}
	result := schema.Validate(value, s)
	m.metrics.RecordValidation(schemaName, result.Valid())
	return result, nil
}

// List returns every discovered dataset: files with a registered
// extension in the data directory, sorted by identifier.
func (m *Manager) List() ([]DatasetInfo, error) {
	return m.catalog.List()
}

// Info describes one dataset without loading it.
func (m *Manager) Info(id string) (*DatasetInfo, error) {
	src, err := m.catalog.Resolve(id)
	if err != nil {
		return nil, err
	}
	return &DatasetInfo{
		ID:         stem(id),
		Path:       src.Path,
		Format:     src.Format,
		SchemaName: m.catalog.SchemaFor(id),
	}, nil
}

// Invalidate drops the cached dataset so the next access reloads it.
func (m *Manager) Invalidate(id string) bool {
	removed := m.cache.Invalidate(stem(id))
	if removed {
		m.logger.Debug("dataset invalidated", "dataset", stem(id))
	}
	return removed
}

// Clear drops every cached dataset and schema.
func (m *Manager) Clear() {
	m.cache.Clear()
	m.library.Clear()
	m.logger.Debug("caches cleared")
}

// Seed inserts a pre-built dataset, bypassing the loaders. Intended
// for fixtures.
func (m *Manager) Seed(ds *Dataset) error {
	return m.cache.Seed(ds.ID, ds)
}

// Journal exposes the journal store for history queries, or nil when
// the journal is disabled.
func (m *Manager) Journal() journal.Store {
	return m.journalStore
}

// Close stops the watcher, drains the journal recorder, and releases
// the journal store when the manager owns it. Safe to call more than
// once.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		if m.watcher != nil {
			m.watcher.Stop()
		}
		m.closeErr = m.closeJournal()
		m.logger.Info("dataset manager closed")
	})
	return m.closeErr
}

func (m *Manager) closeJournal() error {
	if m.pruner != nil {
		m.pruner.Stop()
	}
	if err := m.recorder.Close(); err != nil {
		return err
	}
	if m.ownStore && m.journalStore != nil {
		return m.journalStore.Close()
	}
	return nil
}

// load is one physical load: resolve, parse, validate, journal. It
// runs outside any cache lock. The id may be a bare identifier or an
// explicit filename; the produced dataset is named by the stem either
// way.
func (m *Manager) load(ctx context.Context, id string) (*Dataset, error) {
	start := time.Now()
	loadID := uuid.NewString()
	dsID := stem(id)

	src, err := m.catalog.Resolve(id)
	if err != nil {
		m.journalFailure(dsID, loadID, src, err, start)
		return nil, err
	}

	value, err := m.loader.LoadSource(src)
	if err != nil {
		m.metrics.RecordLoad(string(src.Format), "failed", time.Since(start).Seconds())
		m.journalFailure(dsID, loadID, src, err, start)
		m.logger.Warn("dataset load failed",
			"dataset", dsID,
			"source", src.Path,
			"error", err,
		)
		return nil, err
	}

	ds := &Dataset{
		ID:       dsID,
		Source:   src,
		Value:    value,
		LoadID:   loadID,
		LoadedAt: time.Now(),
	}

	if m.config.Validation.Enabled {
		if name := m.catalog.SchemaFor(id); name != "" {
			s, err := m.library.Get(name)
			if err != nil {
				m.journalFailure(dsID, loadID, src, err, start)
				return nil, err
			}

			ds.SchemaName = name
			ds.Verdict = schema.Validate(value, s)
			m.metrics.RecordValidation(dsID, ds.Verdict.Valid())

			if !ds.Verdict.Valid() && m.strictFor(s) {
				verr := &schema.ValidationError{Dataset: dsID, Schema: name, Result: ds.Verdict}
				m.journalInvalid(ds, start)
				m.logger.Warn("dataset rejected in strict mode",
					"dataset", dsID,
					"schema", name,
					"verdict", ds.Verdict.Summary(),
				)
				return nil, verr
			}
		}
	}

	m.metrics.RecordLoad(string(src.Format), "loaded", time.Since(start).Seconds())
	m.journalLoaded(ds, start)
	m.logger.Info("dataset loaded",
		"dataset", dsID,
		"source", src.Path,
		"format", string(src.Format),
		"schema", ds.SchemaName,
		"verdict", verdictLabel(ds),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// collection resolves a collection reference against the cached tree
// without cloning; callers clone what they hand out.
func (m *Manager) collection(ctx context.Context, ref string) (*canon.Value, error) {
	id := ref
	var path []string
	// An explicit filename keeps its extension; otherwise the first
	// dotted segment is the dataset and the rest a path into it.
	if _, ok := loader.FormatForPath(ref); !ok {
		parts := strings.Split(ref, ".")
		id = parts[0]
		path = parts[1:]
	}

	ds, err := m.getOrLoad(ctx, id)
	if err != nil {
		return nil, err
	}

	value, ok := ds.Value.Lookup(path...)
	if !ok {
		return nil, &NotFoundError{Collection: ref, IDField: "path", EntryID: strings.Join(path, ".")}
	}
	return value, nil
}

// onDataChange is the watcher callback for a changed source file.
func (m *Manager) onDataChange(path string) {
	id := stem(filepath.Base(path))
	if m.cache.Invalidate(id) {
		m.logger.Info("dataset invalidated by file change", "dataset", id, "path", path)
	}
}

// onSchemaChange is the watcher callback for a changed schema file.
// Cached verdicts depend on schemas, so the dataset cache goes too.
func (m *Manager) onSchemaChange(path string) {
	name := stem(filepath.Base(path))
	m.library.Invalidate(name)
	m.cache.Clear()
	m.logger.Info("schema changed, caches cleared", "schema", name, "path", path)
}

// strictFor resolves the effective strict mode for a schema.
func (m *Manager) strictFor(s *schema.Schema) bool {
	if s.Strict != nil {
		return *s.Strict
	}
	return m.config.Validation.Strict
}

func (m *Manager) journalLoaded(ds *Dataset, start time.Time) {
	if m.recorder == nil {
		return
	}
	rec := &journal.Record{
		ID:         ds.LoadID,
		Dataset:    ds.ID,
		Source:     ds.Source.Path,
		Format:     string(ds.Source.Format),
		Outcome:    journal.OutcomeLoaded,
		Verdict:    verdictLabel(ds),
		DurationMS: time.Since(start).Milliseconds(),
		RecordedAt: time.Now(),
	}
	m.recorder.Record(rec)
}

func (m *Manager) journalInvalid(ds *Dataset, start time.Time) {
	if m.recorder == nil {
		return
	}
	rec := &journal.Record{
		ID:          ds.LoadID,
		Dataset:     ds.ID,
		Source:      ds.Source.Path,
		Format:      string(ds.Source.Format),
		Outcome:     journal.OutcomeFailed,
		Verdict:     "invalid",
		ErrorDetail: ds.Verdict.Summary(),
		DurationMS:  time.Since(start).Milliseconds(),
		RecordedAt:  time.Now(),
	}
	m.recorder.Record(rec)
}

func (m *Manager) journalFailure(id, loadID string, src loader.SourceRef, cause error, start time.Time) {
	if m.recorder == nil {
		return
	}
	rec := &journal.Record{
		ID:          loadID,
		Dataset:     id,
		Source:      src.Path,
		Format:      string(src.Format),
		Outcome:     journal.OutcomeFailed,
		ErrorDetail: cause.Error(),
		DurationMS:  time.Since(start).Milliseconds(),
		RecordedAt:  time.Now(),
	}
	m.recorder.Record(rec)
}

// verdictLabel renders the dataset's verdict for logs and the journal.
func verdictLabel(ds *Dataset) string {
	if ds.Verdict == nil {
		return ""
	}
	if ds.Verdict.Valid() {
		return "valid"
	}
	return "invalid"
}

// entryMatchesID compares an entry's identifier field against the
// requested id. Strings compare exactly; other kinds compare on their
// canonical rendering.
func entryMatchesID(field *canon.Value, entryID string) bool {
	if field.Kind() == canon.KindString {
		return field.StringValue() == entryID
	}
	return field.String() == entryID
}

