package extract

import (
	"context"
	"log"
	"time"
)

// Options tunes a pipeline run.
type Options struct {
	// Now anchors synthesized timestamps; time.Now when zero.
	Now time.Time
	// Patterns replaces KeyPatterns when non-empty.
	Patterns []string
}

// Extract drains every database in dbPaths in order and returns the
// normalized records. Unreadable databases are skipped with a verbose log
// line; per-row parse failures drop the row. No error ever aborts the run.
func Extract(ctx context.Context, dbPaths []string, opts Options) []Record {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var all []Record
	for _, dbPath := range dbPaths {
		records, err := extractDB(ctx, dbPath, now, opts.Patterns)
		if err != nil {
			log.Printf("[extract] skipping %s: %v", dbPath, err)
			continue
		}
		log.Printf("[extract] %s: %d records", dbPath, len(records))
		all = append(all, records...)
	}
	return all
}

// extractDB fully drains one database: read matching rows, normalize each
// payload, stamp workspace and source. The database is closed before the
// caller moves to the next one.
func extractDB(ctx context.Context, dbPath string, now time.Time, patterns []string) ([]Record, error) {
	workspace := Workspace(dbPath)
	fb := Fallback{Time: now}

	var records []Record
	err := ReadRows(ctx, dbPath, patterns, func(row Row) error {
		recs := Normalize(row.Value, fb)
		if len(recs) == 0 {
			log.Printf("[extract] dropped row %q (no usable payload)", row.Key)
			return nil
		}
		fb.Index += len(recs)
		for i := range recs {
			recs[i].Workspace = workspace
			recs[i].SourceDB = dbPath
		}
		records = append(records, recs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
