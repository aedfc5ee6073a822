package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/telemetry/logging"
)

// SQLiteStore implements Store using SQLite. Records survive the
// process, so a test run's load history can be inspected afterwards.
type SQLiteStore struct {
	db     *sql.DB
	config *config.JournalSQLiteConfig
	insert *sql.Stmt
	logger *logging.Logger
}

// NewSQLiteStore opens (or creates) the journal database at the
// configured path and initializes its schema.
func NewSQLiteStore(cfg *config.JournalSQLiteConfig, logger *logging.Logger) (*SQLiteStore, error) {
	if cfg == nil {
		cfg = &config.JournalSQLiteConfig{
			Path:         config.DefaultJournalSQLitePath,
			MaxOpenConns: config.DefaultJournalMaxOpenConns,
			MaxIdleConns: config.DefaultJournalMaxIdleConns,
			WALMode:      config.DefaultJournalWALMode,
			BusyTimeout:  config.DefaultJournalBusyTimeout,
		}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.Component("journal.sqlite")

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, NewStoreError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("journal store opened",
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStoreError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStoreError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return NewStoreError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(insertSchemaVersion, schemaVersion); err != nil {
		return NewStoreError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(getSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStoreError("sqlite", "get_schema_version", err)
	}
	if version != schemaVersion {
		return NewStoreError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", schemaVersion, version))
	}

	insert, err := s.db.Prepare(`
		INSERT INTO journal (
			id, dataset, source, format, outcome,
			verdict, error_detail, duration_ms, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return NewStoreError("sqlite", "prepare_insert", err)
	}
	s.insert = insert

	return nil
}

// Append persists a journal record.
func (s *SQLiteStore) Append(ctx context.Context, record *Record) error {
	// Empty optional fields become NULL
	var verdict, errorDetail any
	if record.Verdict != "" {
		verdict = record.Verdict
	}
	if record.ErrorDetail != "" {
		errorDetail = record.ErrorDetail
	}

	_, err := s.insert.ExecContext(ctx,
		record.ID, record.Dataset, record.Source, record.Format, string(record.Outcome),
		verdict, errorDetail, record.DurationMS, record.RecordedAt,
	)
	if err != nil {
		return NewStoreError("sqlite", "append", err)
	}
	return nil
}

// Query retrieves records matching the query, newest first.
func (s *SQLiteStore) Query(ctx context.Context, query *Query) ([]*Record, error) {
	if query == nil {
		query = &Query{}
	}
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT id, dataset, source, format, outcome, verdict, error_detail, duration_ms, recorded_at FROM journal"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY recorded_at DESC, id DESC"

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, NewStoreError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	return records, nil
}

// Count returns the number of records matching the query's filters.
func (s *SQLiteStore) Count(ctx context.Context, query *Query) (int64, error) {
	if query == nil {
		query = &Query{}
	}
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM journal"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, NewStoreError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteBefore removes records recorded before the cutoff.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM journal WHERE recorded_at < ?", cutoff)
	if err != nil {
		return 0, NewStoreError("sqlite", "delete", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, NewStoreError("sqlite", "delete", err)
	}
	return deleted, nil
}

// Close releases the prepared statements and the database handle.
func (s *SQLiteStore) Close() error {
	if s.insert != nil {
		s.insert.Close()
	}
	if err := s.db.Close(); err != nil {
		return NewStoreError("sqlite", "close", err)
	}
	return nil
}

// buildWhereClause translates query filters into SQL conditions.
func buildWhereClause(query *Query) (string, []any) {
	conditions := []string{}
	args := []any{}

	if query.Dataset != "" {
		conditions = append(conditions, "dataset = ?")
		args = append(args, query.Dataset)
	}
	if query.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, string(query.Outcome))
	}
	if query.Since != nil {
		conditions = append(conditions, "recorded_at >= ?")
		args = append(args, *query.Since)
	}
	if query.Until != nil {
		conditions = append(conditions, "recorded_at <= ?")
		args = append(args, *query.Until)
	}

	return strings.Join(conditions, " AND "), args
}

// scanRecord reads one journal row.
func scanRecord(rows *sql.Rows) (*Record, error) {
	var (
		r           Record
		outcome     string
		verdict     sql.NullString
		errorDetail sql.NullString
	)
	err := rows.Scan(
		&r.ID, &r.Dataset, &r.Source, &r.Format, &outcome,
		&verdict, &errorDetail, &r.DurationMS, &r.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Outcome = Outcome(outcome)
	r.Verdict = verdict.String
	r.ErrorDetail = errorDetail.String
	return &r, nil
}
