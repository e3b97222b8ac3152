package storage

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// FindDatabases walks the given roots and returns every *.vscdb / *.db file
// that answers a trivial read-only query. Files that fail the probe (not
// SQLite, truncated, unreadable) are silently skipped.
func FindDatabases(roots []string) []string {
	var dbs []string
	seen := make(map[string]bool)

	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		if probe(path) {
			dbs = append(dbs, path)
		}
	}

	for _, root := range roots {
		if fileExists(root) {
			add(root)
			continue
		}
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if isDatabaseName(d.Name()) {
				add(path)
			}
			return nil
		})
	}
	return dbs
}

// isDatabaseName reports whether a file name looks like a Cursor database.
func isDatabaseName(name string) bool {
	return strings.HasSuffix(name, ".vscdb") || strings.HasSuffix(name, ".db")
}

// probe opens path read-only and runs SELECT 1 to confirm it is a live
// SQLite database. sql.Open is lazy, so the query is what actually touches
// the file.
func probe(path string) bool {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return false
	}
	defer db.Close()

	var one int
	return db.QueryRow(`SELECT 1`).Scan(&one) == nil
}
