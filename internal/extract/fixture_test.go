package extract

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// kvRow is one fixture key/value pair.
type kvRow struct {
	key   string
	value string
}

// writeFixtureDB creates a state.vscdb-style database at path holding the
// given rows in insertion order.
func writeFixtureDB(t *testing.T, path, table string, rows []kvRow) {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("opening fixture db: %v", err)
	}
	defer db.Close()

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT UNIQUE ON CONFLICT REPLACE, value BLOB)`, table)
	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("creating fixture table: %v", err)
	}

	for _, row := range rows {
		insert := fmt.Sprintf(`INSERT INTO %s (key, value) VALUES (?, ?)`, table)
		if _, err := db.Exec(insert, row.key, []byte(row.value)); err != nil {
			t.Fatalf("inserting fixture row %q: %v", row.key, err)
		}
	}
}
