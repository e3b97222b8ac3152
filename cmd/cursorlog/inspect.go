package main

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/cursorlog/internal/config"
	"github.com/janekbaraniewski/cursorlog/internal/extract"
	"github.com/janekbaraniewski/cursorlog/internal/storage"
)

// newInspectCommand builds the diagnostic subcommand: it lists every
// discovered database with its tables, row counts, and how many keys match
// the prompt filter, without writing anything.
func newInspectCommand(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List discovered Cursor databases and their prompt-bearing keys",
		RunE: func(_ *cobra.Command, _ []string) error {
			if *verbose {
				log.SetOutput(os.Stderr)
			} else {
				log.SetOutput(io.Discard)
			}

			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
				cfg = config.DefaultConfig()
			}
			// Same filter a real run extracts with, extras included.
			patterns := cfg.KeyPatterns(extract.KeyPatterns)

			roots := storage.Roots(runtime.GOOS, os.Getenv(storage.EnvStoragePath))
			dbs := storage.FindDatabases(roots)
			if len(dbs) == 0 {
				fmt.Println("No Cursor databases found")
				return nil
			}

			for _, dbPath := range dbs {
				inspectDB(dbPath, patterns)
			}
			return nil
		},
	}
}

func inspectDB(dbPath string, patterns []string) {
	fmt.Println(dbPath)
	fmt.Printf("  workspace: %s\n", extract.Workspace(dbPath))

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		fmt.Printf("  cannot open: %v\n", err)
		return
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err != nil {
		fmt.Printf("  cannot list tables: %v\n", err)
		return
	}
	var tables []string
	for rows.Next() {
		var name string
		if rows.Scan(&name) == nil {
			tables = append(tables, name)
		}
	}
	rows.Close()

	for _, table := range tables {
		var total int
		if db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM [%s]`, table)).Scan(&total) != nil {
			continue
		}
		line := fmt.Sprintf("  %s: %d keys", table, total)
		if matched, ok := countPromptKeys(db, table, patterns); ok {
			line += fmt.Sprintf(", %d matching prompt patterns", matched)
		}
		fmt.Println(line)
	}
	fmt.Println()
}

// countPromptKeys applies the extraction key filter to a table; ok is false
// for tables without a key column.
func countPromptKeys(db *sql.DB, table string, patterns []string) (int, bool) {
	clauses := make([]string, len(patterns))
	args := make([]any, len(patterns))
	for i, p := range patterns {
		clauses[i] = "key LIKE ?"
		args[i] = "%" + p + "%"
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM [%s] WHERE %s`,
		table, strings.Join(clauses, " OR "))

	var matched int
	if err := db.QueryRow(query, args...).Scan(&matched); err != nil {
		return 0, false
	}
	return matched, true
}
