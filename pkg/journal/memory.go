package journal

import (
	"context"
	"sync"
	"time"

	"mercator-hq/callisto/pkg/config"
)

// MemoryStore implements Store with an in-memory bounded ring.
// The oldest records are dropped once the configured cap is reached.
// Suitable for test runs and development; records do not survive the
// process.
type MemoryStore struct {
	mu         sync.RWMutex
	records    []*Record // insertion order, oldest first
	maxRecords int       // 0 means unbounded
}

// NewMemoryStore creates an in-memory journal store. A nil config
// uses the default record cap.
func NewMemoryStore(cfg *config.JournalMemoryConfig) *MemoryStore {
	maxRecords := config.DefaultJournalMemoryMax
	if cfg != nil {
		maxRecords = cfg.MaxRecords
	}
	return &MemoryStore{
		records:    make([]*Record, 0, 64),
		maxRecords: maxRecords,
	}
}

// Append stores a copy of the record, evicting the oldest entry when
// the ring is full.
func (m *MemoryStore) Append(_ context.Context, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, record.Clone())
	if m.maxRecords > 0 && len(m.records) > m.maxRecords {
		overflow := len(m.records) - m.maxRecords
		m.records = append(m.records[:0], m.records[overflow:]...)
	}
	return nil
}

// Query returns copies of the matching records, newest first.
func (m *MemoryStore) Query(_ context.Context, query *Query) ([]*Record, error) {
	if query == nil {
		query = &Query{}
	}
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := []*Record{}
	skipped := 0
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if !query.matches(r) {
			continue
		}
		if skipped < query.Offset {
			skipped++
			continue
		}
		results = append(results, r.Clone())
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Count returns the number of records matching the query's filters.
func (m *MemoryStore) Count(_ context.Context, query *Query) (int64, error) {
	if query == nil {
		query = &Query{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, r := range m.records {
		if query.matches(r) {
			n++
		}
	}
	return n, nil
}

// DeleteBefore removes records recorded before the cutoff.
func (m *MemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// Size returns the current number of stored records.
func (m *MemoryStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close implements Store. The memory store holds no resources.
func (m *MemoryStore) Close() error {
	return nil
}
