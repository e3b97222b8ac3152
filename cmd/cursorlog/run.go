package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/janekbaraniewski/cursorlog/internal/config"
	"github.com/janekbaraniewski/cursorlog/internal/extract"
	"github.com/janekbaraniewski/cursorlog/internal/logfile"
	"github.com/janekbaraniewski/cursorlog/internal/storage"
	"github.com/janekbaraniewski/cursorlog/internal/watch"
)

// runOnce performs one full extraction pass: locate databases, drain each,
// aggregate, write the log. Per-database failures are skipped; only an
// unwritable output path is fatal.
func runOnce(cfg config.Config) error {
	roots := storage.Roots(runtime.GOOS, os.Getenv(storage.EnvStoragePath))
	log.Printf("[run] %d storage roots", len(roots))

	dbs := storage.FindDatabases(roots)
	if len(dbs) == 0 {
		fmt.Fprintln(os.Stderr, "No Cursor databases found")
	}
	log.Printf("[run] %d database files", len(dbs))

	now := time.Now()
	records := extract.Extract(context.Background(), dbs, extract.Options{
		Now:      now,
		Patterns: cfg.KeyPatterns(extract.KeyPatterns),
	})
	records = extract.Aggregate(records, cfg.Dedupe)

	workspace, err := os.Getwd()
	if err != nil {
		workspace = extract.WorkspaceUnknown
	}

	meta := logfile.Meta{GeneratedAt: now, Workspace: workspace}
	if err := logfile.Write(cfg.Output, meta, records); err != nil {
		return err
	}

	fmt.Printf("Wrote %d prompts to %s\n", len(records), cfg.Output)
	return nil
}

// runWatch regenerates the log whenever a database changes, debounced so a
// burst of SQLite journal writes triggers a single pass.
func runWatch(cfg config.Config) error {
	if err := runOnce(cfg); err != nil {
		return err
	}

	roots := storage.Roots(runtime.GOOS, os.Getenv(storage.EnvStoragePath))
	if len(roots) == 0 {
		return fmt.Errorf("nothing to watch: no Cursor storage locations found")
	}

	w, err := watch.New(roots)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	debounce := time.Duration(cfg.WatchDebounceSeconds) * time.Second
	fmt.Fprintln(os.Stderr, "Watching for changes (Ctrl-C to stop)")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	var pending <-chan time.Time
	for {
		select {
		case <-sig:
			return nil
		case path := <-w.Events():
			log.Printf("[watch] change: %s", path)
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			if err := runOnce(cfg); err != nil {
				return err
			}
		}
	}
}
