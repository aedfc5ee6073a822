// Package journal records the outcome of every physical dataset load:
// which source was read, whether the load succeeded, the validation
// verdict, and how long it took.
//
// # Overview
//
// The journal is observability, not control flow. Records flow through
// an asynchronous Recorder into a Store backend; journal failures are
// logged and never surfaced to dataset operations.
//
// Two backends implement Store:
//
//   - MemoryStore: a bounded in-process ring, the default
//   - SQLiteStore: a persistent database, so a run's history can be
//     inspected after the process exits
//
// Retention is handled by Pruner, which deletes records older than the
// configured window either on demand or on a cron schedule.
//
// # Usage
//
//	store, err := journal.NewStore(&cfg.Journal, logger)
//	if err != nil {
//		return err
//	}
//	recorder := journal.NewRecorder(store, cfg.Journal.BufferSize, logger)
//	defer recorder.Close()
//
//	rec := journal.NewRecord("users", "testdata/users.json", "json")
//	rec.Outcome = journal.OutcomeLoaded
//	rec.DurationMS = 12
//	recorder.Record(rec)
package journal
