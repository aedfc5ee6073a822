package loader

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/callisto/pkg/canon"
)

// readSQLite decodes a record-store source: every user table in the
// database becomes an entry in the root object, keyed by table name and
// holding the table's rows as a list of objects. Tables appear in
// creation order, rows in storage order, so repeated loads of the same
// file yield identical trees.
func readSQLite(path string) (*canon.Value, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=%d", path, 5000)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, NewParseError(path, "cannot open database", err)
	}
	defer db.Close()

	// The loader only reads; a single connection keeps row order stable.
	db.SetMaxOpenConns(1)

	tables, err := listTables(db, path)
	if err != nil {
		return nil, err
	}

	root := canon.NewMap()
	for _, table := range tables {
		rows, err := readTable(db, path, table)
		if err != nil {
			return nil, err
		}
		root.Set(table, rows)
	}
	return root, nil
}

func listTables(db *sql.DB, path string) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, NewParseError(path, "cannot read database", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, NewParseError(path, "cannot read table list", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, NewParseError(path, "cannot read table list", err)
	}
	return tables, nil
}

func readTable(db *sql.DB, path, table string) (*canon.Value, error) {
	rows, err := db.Query("SELECT * FROM " + quoteIdentifier(table))
	if err != nil {
		return nil, NewParseError(path, fmt.Sprintf("cannot read table %q", table), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, NewParseError(path, fmt.Sprintf("cannot read columns of table %q", table), err)
	}

	list := canon.NewList()
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, NewParseError(path, fmt.Sprintf("cannot read row of table %q", table), err)
		}

		row := canon.NewMap()
		for i, col := range columns {
			value, err := sqliteValue(path, table, col, raw[i])
			if err != nil {
				return nil, err
			}
			row.Set(col, value)
		}
		list.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, NewParseError(path, fmt.Sprintf("cannot read table %q", table), err)
	}
	return list, nil
}

func sqliteValue(path, table, column string, raw any) (*canon.Value, error) {
	switch v := raw.(type) {
	case nil:
		return canon.Null(), nil
	case int64:
		return canon.Number(float64(v)), nil
	case float64:
		return canon.Number(v), nil
	case string:
		return canon.String(v), nil
	case time.Time:
		return canon.String(v.Format(time.RFC3339)), nil
	case []byte:
		return nil, NewParseError(path,
			fmt.Sprintf("table %q column %q holds a blob, which has no canonical form", table, column), nil)
	default:
		return nil, NewParseError(path,
			fmt.Sprintf("table %q column %q has unsupported driver type %T", table, column, raw), nil)
	}
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
