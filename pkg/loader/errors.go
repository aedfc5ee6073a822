package loader

import (
	"errors"
	"fmt"
)

// ErrorKind classifies load failures so callers can distinguish a
// missing source from a corrupt one without string matching.
type ErrorKind string

const (
	// ErrorKindNotFound indicates the source file does not exist or is
	// not readable.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindParse indicates the source exists but its content could
	// not be converted to a canonical value.
	ErrorKindParse ErrorKind = "parse"

	// ErrorKindUnsupportedFormat indicates no loader is registered for
	// the source's file extension.
	ErrorKindUnsupportedFormat ErrorKind = "unsupported_format"
)

// LoadError is the failure type for every loader operation.
// Kind discriminates the failure class; Line/Column/Row carry position
// information where the format can provide it (Row is the 1-based data
// row for tabular sources, excluding the header).
type LoadError struct {
	Kind   ErrorKind
	Path   string
	Line   int
	Column int
	Row    int
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch e.Kind {
	case ErrorKindNotFound:
		if e.Cause != nil {
			return fmt.Sprintf("data source %s not found: %v", e.Path, e.Cause)
		}
		return fmt.Sprintf("data source %s not found: %s", e.Path, e.Detail)
	case ErrorKindUnsupportedFormat:
		return fmt.Sprintf("unsupported data format for %s: %s", e.Path, e.Detail)
	default:
		pos := e.Path
		if e.Line > 0 {
			pos = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
		}
		msg := fmt.Sprintf("parse %s: %s", pos, e.Detail)
		if e.Row > 0 {
			msg = fmt.Sprintf("parse %s: row %d: %s", pos, e.Row, e.Detail)
		}
		if e.Cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, e.Cause)
		}
		return msg
	}
}

// Unwrap returns the underlying cause, if any.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a LoadError for a missing or unreadable source.
func NewNotFoundError(path, detail string, cause error) *LoadError {
	return &LoadError{Kind: ErrorKindNotFound, Path: path, Detail: detail, Cause: cause}
}

// NewParseError creates a LoadError for malformed source content.
func NewParseError(path, detail string, cause error) *LoadError {
	return &LoadError{Kind: ErrorKindParse, Path: path, Detail: detail, Cause: cause}
}

// NewParseErrorAt creates a parse LoadError carrying a source position.
func NewParseErrorAt(path string, line, column int, detail string, cause error) *LoadError {
	return &LoadError{Kind: ErrorKindParse, Path: path, Line: line, Column: column, Detail: detail, Cause: cause}
}

// NewRowError creates a parse LoadError for a specific tabular data row.
func NewRowError(path string, row int, detail string) *LoadError {
	return &LoadError{Kind: ErrorKindParse, Path: path, Row: row, Detail: detail}
}

// NewUnsupportedFormatError creates a LoadError for an unrecognized extension.
func NewUnsupportedFormatError(path, detail string) *LoadError {
	return &LoadError{Kind: ErrorKindUnsupportedFormat, Path: path, Detail: detail}
}

// IsNotFound reports whether err is a LoadError with kind not_found.
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == ErrorKindNotFound
}

// IsParseError reports whether err is a LoadError with kind parse.
func IsParseError(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == ErrorKindParse
}

// IsUnsupportedFormat reports whether err is a LoadError with kind
// unsupported_format.
func IsUnsupportedFormat(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == ErrorKindUnsupportedFormat
}
