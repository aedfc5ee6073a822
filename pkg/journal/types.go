package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies one load attempt.
type Outcome string

const (
	// OutcomeLoaded marks a load that produced a dataset.
	OutcomeLoaded Outcome = "loaded"

	// OutcomeFailed marks a load that returned an error.
	OutcomeFailed Outcome = "failed"
)

// Record is one journal entry: the outcome of a single physical load,
// including the validation verdict when the dataset was validated.
type Record struct {
	// ID is the UUID v4 load identifier. It correlates the journal
	// entry with the dataset's load logs.
	ID string `json:"id"`

	// Dataset is the dataset identifier that was requested.
	Dataset string `json:"dataset"`

	// Source is the resolved source path.
	Source string `json:"source"`

	// Format is the source format ("json", "yaml", "csv", "sqlite").
	Format string `json:"format"`

	// Outcome is "loaded" or "failed".
	Outcome Outcome `json:"outcome"`

	// Verdict is the validation verdict: "valid", "invalid", or empty
	// when the dataset was not validated against a schema.
	Verdict string `json:"verdict,omitempty"`

	// ErrorDetail describes the failure for failed outcomes.
	ErrorDetail string `json:"error_detail,omitempty"`

	// DurationMS is the load duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// RecordedAt is when the record was created.
	RecordedAt time.Time `json:"recorded_at"`
}

// NewRecord creates a journal record with a fresh load identifier and
// the current time.
func NewRecord(dataset, source, format string) *Record {
	return &Record{
		ID:         uuid.NewString(),
		Dataset:    dataset,
		Source:     source,
		Format:     format,
		RecordedAt: time.Now(),
	}
}

// Clone returns a copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Query defines filter parameters for reading journal records.
// Zero-valued fields do not filter. Results are ordered newest first.
type Query struct {
	// Dataset filters by dataset identifier.
	Dataset string `json:"dataset,omitempty"`

	// Outcome filters by outcome ("loaded", "failed").
	Outcome Outcome `json:"outcome,omitempty"`

	// Since keeps records recorded at or after this time.
	Since *time.Time `json:"since,omitempty"`

	// Until keeps records recorded at or before this time.
	Until *time.Time `json:"until,omitempty"`

	// Limit caps the number of records returned. Zero means the
	// default cap of 100.
	Limit int `json:"limit,omitempty"`

	// Offset skips the newest N matching records.
	Offset int `json:"offset,omitempty"`
}

// DefaultQueryLimit caps query results when the query names no limit.
const DefaultQueryLimit = 100

// matches reports whether the record passes every filter in the query.
// Limit and Offset are pagination, not filters, and are ignored here.
func (q *Query) matches(r *Record) bool {
	if q.Dataset != "" && q.Dataset != r.Dataset {
		return false
	}
	if q.Outcome != "" && q.Outcome != r.Outcome {
		return false
	}
	if q.Since != nil && r.RecordedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && r.RecordedAt.After(*q.Until) {
		return false
	}
	return true
}

// Store defines the interface for journal storage backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append persists a journal record.
	Append(ctx context.Context, record *Record) error

	// Query retrieves records matching the query, newest first.
	// Returns an empty slice when nothing matches.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the query's
	// filters, ignoring pagination.
	Count(ctx context.Context, query *Query) (int64, error)

	// DeleteBefore removes records recorded before the cutoff and
	// returns the number deleted. Used by retention pruning.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}
