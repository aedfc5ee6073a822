package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"mercator-hq/callisto/pkg/canon"
)

// Format identifies a supported source format. The value doubles as the
// format label in logs, metrics, and journal records.
type Format string

const (
	// FormatJSON is the record-table format: nested object/array
	// documents.
	FormatJSON Format = "json"

	// FormatYAML is the tree-config format: indentation-based
	// hierarchical documents.
	FormatYAML Format = "yaml"

	// FormatCSV is the tabular-rows format: a header row followed by
	// data rows.
	FormatCSV Format = "csv"

	// FormatSQLite is the record-store format: a SQLite database file
	// whose tables become row collections.
	FormatSQLite Format = "sqlite"
)

// SourceRef identifies one data source: where it lives and how to
// parse it.
type SourceRef struct {
	Path   string
	Format Format
}

// String returns "path (format)" for logs and error messages.
func (s SourceRef) String() string {
	return fmt.Sprintf("%s (%s)", s.Path, s.Format)
}

// formatsByExtension maps a lowercased file extension to its format.
var formatsByExtension = map[string]Format{
	".json":   FormatJSON,
	".yaml":   FormatYAML,
	".yml":    FormatYAML,
	".csv":    FormatCSV,
	".db":     FormatSQLite,
	".sqlite": FormatSQLite,
}

// FormatForPath returns the format registered for the path's extension.
func FormatForPath(path string) (Format, bool) {
	f, ok := formatsByExtension[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// SupportedExtensions returns every registered extension, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(formatsByExtension))
	for ext := range formatsByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Loader converts source files into canonical value trees. It performs
// no schema checks; all loaders produce the same canonical shape so one
// schema can validate data from any format.
//
// A Loader is safe for concurrent use: configuration happens up front
// through the With* methods and Load only reads.
type Loader struct {
	maxFileSize int64 // Maximum file size in bytes (default: 10MB)
	typedRows   bool  // Infer scalar types for tabular values
}

// NewLoader creates a Loader with default settings.
func NewLoader() *Loader {
	return &Loader{
		maxFileSize: 10 * 1024 * 1024, // 10MB
	}
}

// WithMaxFileSize sets the maximum source file size.
func (l *Loader) WithMaxFileSize(size int64) *Loader {
	l.maxFileSize = size
	return l
}

// WithTypedRows enables scalar type inference for tabular sources:
// empty cells become null, true/false become booleans, numeric literals
// become numbers. When disabled every cell stays a string.
func (l *Loader) WithTypedRows(enabled bool) *Loader {
	l.typedRows = enabled
	return l
}

// Load parses the file at path, picking the loader by extension.
func (l *Loader) Load(path string) (*canon.Value, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, NewUnsupportedFormatError(path,
			fmt.Sprintf("extension %q is not a supported data format (supported: %s)",
				filepath.Ext(path), strings.Join(SupportedExtensions(), ", ")))
	}
	return l.LoadSource(SourceRef{Path: path, Format: format})
}

// LoadSource parses the source with the loader for its declared format,
// regardless of extension.
func (l *Loader) LoadSource(src SourceRef) (*canon.Value, error) {
	switch src.Format {
	case FormatJSON:
		data, err := l.readSourceFile(src.Path, true)
		if err != nil {
			return nil, err
		}
		return parseJSON(src.Path, data)
	case FormatYAML:
		data, err := l.readSourceFile(src.Path, true)
		if err != nil {
			return nil, err
		}
		return parseYAML(src.Path, data)
	case FormatCSV:
		data, err := l.readSourceFile(src.Path, true)
		if err != nil {
			return nil, err
		}
		return parseCSV(src.Path, data, l.typedRows)
	case FormatSQLite:
		if err := l.statSourceFile(src.Path); err != nil {
			return nil, err
		}
		return readSQLite(src.Path)
	default:
		return nil, NewUnsupportedFormatError(src.Path,
			fmt.Sprintf("unknown format %q", src.Format))
	}
}

// statSourceFile verifies the source exists, is a regular file, and is
// within the size limit.
func (l *Loader) statSourceFile(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewNotFoundError(path, "file does not exist", err)
		}
		if os.IsPermission(err) {
			return NewNotFoundError(path, "permission denied", err)
		}
		return NewNotFoundError(path, "cannot stat file", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return NewNotFoundError(path, "not a regular file", nil)
	}

	if fileInfo.Size() > l.maxFileSize {
		return NewParseError(path,
			fmt.Sprintf("file size %d exceeds maximum %d bytes", fileInfo.Size(), l.maxFileSize), nil)
	}

	return nil
}

// readSourceFile stats and reads a source file. Text formats are
// additionally required to be valid UTF-8.
func (l *Loader) readSourceFile(path string, wantText bool) ([]byte, error) {
	if err := l.statSourceFile(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewNotFoundError(path, "cannot read file", err)
	}

	if wantText && !utf8.Valid(data) {
		return nil, NewParseError(path, "file contains invalid UTF-8", nil)
	}

	return data, nil
}
