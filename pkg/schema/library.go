package schema

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"mercator-hq/callisto/pkg/loader"
)

// Library serves parsed schemas by name, loading each schema document
// from disk at most once. Schema documents live one per name under the
// library directory as record-table (JSON) files: the schema "user" is
// read from "<dir>/user.json".
//
// A Library is safe for concurrent use. Parsed schemas are immutable,
// so lookups after the first load are lock-cheap map reads.
type Library struct {
	dir string
	ldr *loader.Loader

	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewLibrary creates a Library over the given schemas directory.
func NewLibrary(dir string, ldr *loader.Loader) *Library {
	if ldr == nil {
		ldr = loader.NewLoader()
	}
	return &Library{
		dir:     dir,
		ldr:     ldr,
		schemas: make(map[string]*Schema),
	}
}

// Dir returns the directory schema documents are loaded from.
func (l *Library) Dir() string {
	return l.dir
}

// Path returns the file a schema name resolves to.
func (l *Library) Path(name string) string {
	return filepath.Join(l.dir, name+".json")
}

// Get returns the schema for name, loading and parsing its document on
// first use. A failed load is not cached: a corrected schema file is
// picked up by the next Get.
func (l *Library) Get(name string) (*Schema, error) {
	if name == "" {
		return nil, &DefinitionError{Schema: name, Path: "root", Message: "schema name cannot be empty"}
	}

	l.mu.RLock()
	s, ok := l.schemas[name]
	l.mu.RUnlock()
	if ok {
		return s, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another caller may have loaded it while we waited for the lock.
	if s, ok := l.schemas[name]; ok {
		return s, nil
	}

	doc, err := l.ldr.Load(l.Path(name))
	if err != nil {
		return nil, fmt.Errorf("loading schema %q: %w", name, err)
	}

	s, err = Parse(name, doc)
	if err != nil {
		return nil, err
	}

	l.schemas[name] = s
	return s, nil
}

// Register places a pre-built schema into the library, replacing any
// cached schema with the same name.
func (l *Library) Register(s *Schema) error {
	if s == nil {
		return &DefinitionError{Path: "root", Message: "schema cannot be nil"}
	}
	if s.Name == "" {
		return &DefinitionError{Path: "root", Message: "schema name cannot be empty"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.schemas[s.Name] = s
	return nil
}

// Has reports whether a schema is currently cached. It never touches
// the filesystem.
func (l *Library) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.schemas[name]
	return ok
}

// Names returns the cached schema names, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.schemas))
	for name := range l.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invalidate drops one cached schema so the next Get re-reads its
// document. It reports whether the schema was cached.
func (l *Library) Invalidate(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.schemas[name]; !ok {
		return false
	}
	delete(l.schemas, name)
	return true
}

// Clear drops every cached schema.
func (l *Library) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.schemas = make(map[string]*Schema)
}
