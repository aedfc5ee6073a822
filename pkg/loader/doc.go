// Package loader parses test-data sources into canonical value trees.
//
// Four formats are supported, selected by file extension:
//
//   - .json: record-oriented tables (nested objects and arrays)
//   - .yaml/.yml: configuration trees (indentation-based hierarchy)
//   - .csv: tabular rows (header row plus data rows)
//   - .db/.sqlite: record stores (database tables as row collections)
//
// Every loader produces the same canonical shape (package canon), so
// downstream validation and filtering never know or care which format a
// dataset came from. Loaders only parse: schema checks belong to
// package schema.
//
// # Usage
//
//	l := loader.NewLoader()
//	value, err := l.Load("testdata/devices.csv")
//	if err != nil {
//	    var loadErr *loader.LoadError
//	    if errors.As(err, &loadErr) && loadErr.Kind == loader.ErrorKindParse {
//	        // malformed source
//	    }
//	}
//
// # Guarantees
//
// Object key order follows the source document (JSON and YAML decode
// through their token/node streams, not native maps). Tabular rows keep
// file order; record-store tables keep creation order and rows keep
// storage order. Sources are checked before parsing: missing or
// irregular files, oversized files, and invalid UTF-8 in text formats
// all fail with a classified LoadError rather than a format-specific
// panic or a half-parsed tree.
package loader
