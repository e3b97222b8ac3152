package extract

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// KeyPatterns is the authoritative filter for what counts as prompt history.
// Keys are matched as substrings; anything else is never yielded.
var KeyPatterns = []string{
	"aiService.prompts",
	"aiService.generations",
	"composerData",
	"workbench.panel.aichat",
}

// kvTables are the key/value tables Cursor is known to use. A database may
// carry either or both.
var kvTables = []string{"ItemTable", "cursorDiskKV"}

// Row is one raw key/value pair read from a database.
type Row struct {
	Key   string
	Value []byte
}

// UnreadableError reports a database file that could not be opened or
// queried (missing, locked, corrupt). The pipeline skips the file.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("database %s unreadable: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// ReadRows opens dbPath read-only and streams every row whose key matches
// one of patterns (KeyPatterns when empty) to fn, in storage (rowid) order.
// Each call performs a fresh scan; rows are never buffered.
func ReadRows(ctx context.Context, dbPath string, patterns []string, fn func(Row) error) error {
	if len(patterns) == 0 {
		patterns = KeyPatterns
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return &UnreadableError{Path: dbPath, Err: err}
	}
	defer db.Close()

	tables, err := listKVTables(ctx, db)
	if err != nil {
		return &UnreadableError{Path: dbPath, Err: err}
	}

	for _, table := range tables {
		if err := readTableRows(ctx, db, dbPath, table, patterns, fn); err != nil {
			return err
		}
	}
	return nil
}

// listKVTables returns the known key/value tables present in db.
func listKVTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if rows.Scan(&name) != nil {
			continue
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	var tables []string
	for _, table := range kvTables {
		if present[table] {
			tables = append(tables, table)
		}
	}
	return tables, nil
}

func readTableRows(ctx context.Context, db *sql.DB, dbPath, table string, patterns []string, fn func(Row) error) error {
	clauses := make([]string, len(patterns))
	args := make([]any, len(patterns))
	for i, p := range patterns {
		clauses[i] = "key LIKE ?"
		args[i] = "%" + p + "%"
	}

	query := fmt.Sprintf(`SELECT key, value FROM %s WHERE %s ORDER BY rowid`,
		table, strings.Join(clauses, " OR "))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return &UnreadableError{Path: dbPath, Err: fmt.Errorf("querying %s: %w", table, err)}
	}
	defer rows.Close()

	for rows.Next() {
		var row Row
		if rows.Scan(&row.Key, &row.Value) != nil {
			continue
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return &UnreadableError{Path: dbPath, Err: fmt.Errorf("scanning %s: %w", table, err)}
	}
	return nil
}
