package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mercator-hq/callisto/pkg/loader"
)

// sourcePrecedence is the extension order a bare identifier is
// resolved in. Deterministic so the same tree always resolves the
// same way.
var sourcePrecedence = []string{".json", ".yaml", ".yml", ".csv", ".db", ".sqlite"}

// Catalog maps dataset identifiers to source files and schema names.
// It holds no state beyond its configuration; resolution re-reads the
// directory so newly dropped files are visible without a restart.
type Catalog struct {
	dataDir    string
	schemasDir string
	bindings   map[string]string
}

// NewCatalog creates a catalog over the data directory. bindings maps
// dataset identifiers to schema names and takes precedence over the
// schema-file naming convention.
func NewCatalog(dataDir, schemasDir string, bindings map[string]string) *Catalog {
	return &Catalog{
		dataDir:    dataDir,
		schemasDir: schemasDir,
		bindings:   bindings,
	}
}

// Resolve maps a dataset identifier to a source file. An identifier
// with a registered extension ("users.json") resolves directly; a bare
// identifier ("users") scans the data directory across registered
// extensions in precedence order. No match is a NotFound LoadError;
// more than one match is an AmbiguousSourceError.
func (c *Catalog) Resolve(id string) (loader.SourceRef, error) {
	if format, ok := loader.FormatForPath(id); ok {
		path := filepath.Join(c.dataDir, id)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return loader.SourceRef{}, loader.NewNotFoundError(path, "source file does not exist", err)
			}
			return loader.SourceRef{}, loader.NewNotFoundError(path, "source file is not accessible", err)
		}
		return loader.SourceRef{Path: path, Format: format}, nil
	}

	var candidates []string
	for _, ext := range sourcePrecedence {
		path := filepath.Join(c.dataDir, id+ext)
		if _, err := os.Stat(path); err == nil {
			candidates = append(candidates, path)
		}
	}

	switch len(candidates) {
	case 0:
		return loader.SourceRef{}, loader.NewNotFoundError(
			filepath.Join(c.dataDir, id),
			fmt.Sprintf("no source for dataset %q in %s (tried %s)",
				id, c.dataDir, strings.Join(sourcePrecedence, ", ")),
			nil)
	case 1:
		format, _ := loader.FormatForPath(candidates[0])
		return loader.SourceRef{Path: candidates[0], Format: format}, nil
	default:
		return loader.SourceRef{}, &AmbiguousSourceError{ID: id, Candidates: candidates}
	}
}

// SchemaFor returns the schema name bound to a dataset: the explicit
// config binding when present, else the convention file
// <schemas dir>/<id>.json, else "" for unvalidated.
func (c *Catalog) SchemaFor(id string) string {
	id = stem(id)
	if name, ok := c.bindings[id]; ok {
		return name
	}
	if _, err := os.Stat(filepath.Join(c.schemasDir, id+".json")); err == nil {
		return id
	}
	return ""
}

// List discovers every dataset in the data directory: files with a
// registered extension, sorted by identifier. The schemas directory is
// skipped when it lives inside the data directory.
func (c *Catalog) List() ([]DatasetInfo, error) {
	dirEntries, err := os.ReadDir(c.dataDir)
	if err != nil {
		return nil, loader.NewNotFoundError(c.dataDir, "data directory is not readable", err)
	}

	infos := []DatasetInfo{}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		format, ok := loader.FormatForPath(de.Name())
		if !ok {
			continue
		}
		id := stem(de.Name())
		infos = append(infos, DatasetInfo{
			ID:         id,
			Path:       filepath.Join(c.dataDir, de.Name()),
			Format:     format,
			SchemaName: c.SchemaFor(id),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].ID != infos[j].ID {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].Path < infos[j].Path
	})
	return infos, nil
}

// DataDir returns the data directory the catalog scans.
func (c *Catalog) DataDir() string {
	return c.dataDir
}

// SchemasDir returns the schema directory the catalog checks bindings
// against.
func (c *Catalog) SchemasDir() string {
	return c.schemasDir
}

// stem strips a registered extension from an identifier or filename.
func stem(name string) string {
	if _, ok := loader.FormatForPath(name); ok {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
