package journal

// schemaVersion is the current database schema version.
const schemaVersion = 1

// sqliteSchema contains the SQL statements to create the journal
// database schema.
const sqliteSchema = `
-- Load journal table
CREATE TABLE IF NOT EXISTS journal (
    id TEXT PRIMARY KEY,

    dataset TEXT NOT NULL,
    source TEXT NOT NULL,
    format TEXT NOT NULL,
    outcome TEXT NOT NULL,

    verdict TEXT,
    error_detail TEXT,

    duration_ms INTEGER NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_journal_recorded_at ON journal(recorded_at);
CREATE INDEX IF NOT EXISTS idx_journal_dataset ON journal(dataset);
CREATE INDEX IF NOT EXISTS idx_journal_outcome ON journal(outcome);
`

// insertSchemaVersion inserts the schema version into the
// schema_version table.
const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// getSchemaVersion retrieves the current schema version from the
// database.
const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
