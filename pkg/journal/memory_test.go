package journal

import (
	"context"
	"testing"
	"time"

	"mercator-hq/callisto/pkg/config"
)

func makeRecord(dataset string, outcome Outcome, at time.Time) *Record {
	r := NewRecord(dataset, "testdata/"+dataset+".json", "json")
	r.Outcome = outcome
	r.RecordedAt = at
	return r
}

func TestMemoryStore_AppendAndQuery(t *testing.T) {
	store := NewMemoryStore(nil)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := makeRecord("users", OutcomeLoaded, base.Add(time.Duration(i)*time.Minute))
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := store.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Query() returned %d records, want 3", len(got))
	}
	// Newest first.
	for i := 1; i < len(got); i++ {
		if got[i].RecordedAt.After(got[i-1].RecordedAt) {
			t.Errorf("records out of order: %v before %v", got[i-1].RecordedAt, got[i].RecordedAt)
		}
	}
}

func TestMemoryStore_QueryFilters(t *testing.T) {
	store := NewMemoryStore(nil)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.Append(context.Background(), makeRecord("users", OutcomeLoaded, base))
	store.Append(context.Background(), makeRecord("users", OutcomeFailed, base.Add(time.Minute)))
	store.Append(context.Background(), makeRecord("devices", OutcomeLoaded, base.Add(2*time.Minute)))

	tests := []struct {
		name  string
		query *Query
		want  int
	}{
		{"by dataset", &Query{Dataset: "users"}, 2},
		{"by outcome", &Query{Outcome: OutcomeFailed}, 1},
		{"dataset and outcome", &Query{Dataset: "users", Outcome: OutcomeLoaded}, 1},
		{"since excludes older", &Query{Since: timePtr(base.Add(time.Minute))}, 2},
		{"until excludes newer", &Query{Until: timePtr(base.Add(time.Minute))}, 2},
		{"no match", &Query{Dataset: "missing"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Query() returned %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestMemoryStore_QueryPagination(t *testing.T) {
	store := NewMemoryStore(nil)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.Append(context.Background(), makeRecord("users", OutcomeLoaded, base.Add(time.Duration(i)*time.Minute)))
	}

	got, err := store.Query(context.Background(), &Query{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Query() returned %d records, want 2", len(got))
	}
	// Offset 1 skips the newest record (minute 4).
	if !got[0].RecordedAt.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("first record at %v, want %v", got[0].RecordedAt, base.Add(3*time.Minute))
	}
}

func TestMemoryStore_RingEviction(t *testing.T) {
	store := NewMemoryStore(&config.JournalMemoryConfig{MaxRecords: 3})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		store.Append(context.Background(), makeRecord("users", OutcomeLoaded, base.Add(time.Duration(i)*time.Minute)))
	}

	if store.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", store.Size())
	}
	got, _ := store.Query(context.Background(), nil)
	// The two oldest records were evicted.
	oldest := got[len(got)-1]
	if !oldest.RecordedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("oldest surviving record at %v, want %v", oldest.RecordedAt, base.Add(2*time.Minute))
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore(nil)
	rec := makeRecord("users", OutcomeLoaded, time.Now())
	store.Append(context.Background(), rec)

	// Mutating the appended record must not change the stored one.
	rec.Dataset = "mutated"

	got, _ := store.Query(context.Background(), nil)
	if got[0].Dataset != "users" {
		t.Errorf("stored record mutated: dataset = %q", got[0].Dataset)
	}

	// Mutating a queried record must not change the stored one either.
	got[0].Dataset = "mutated"
	again, _ := store.Query(context.Background(), nil)
	if again[0].Dataset != "users" {
		t.Errorf("query result aliases store: dataset = %q", again[0].Dataset)
	}
}

func TestMemoryStore_Count(t *testing.T) {
	store := NewMemoryStore(nil)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Append(context.Background(), makeRecord("users", OutcomeLoaded, base))
	store.Append(context.Background(), makeRecord("users", OutcomeFailed, base))
	store.Append(context.Background(), makeRecord("devices", OutcomeLoaded, base))

	count, err := store.Count(context.Background(), &Query{Dataset: "users", Limit: 1})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	// Count ignores pagination.
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestMemoryStore_DeleteBefore(t *testing.T) {
	store := NewMemoryStore(nil)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		store.Append(context.Background(), makeRecord("users", OutcomeLoaded, base.Add(time.Duration(i)*time.Hour)))
	}

	deleted, err := store.DeleteBefore(context.Background(), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteBefore() = %d, want 2", deleted)
	}
	if store.Size() != 2 {
		t.Errorf("Size() after delete = %d, want 2", store.Size())
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
