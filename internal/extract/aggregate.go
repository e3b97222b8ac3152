package extract

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Aggregate orders records newest-first. The sort is stable, so records with
// equal timestamps keep their discovery order (by database, then by row).
// With dedupe set, records identical in (timestamp, content, command type)
// collapse to the first occurrence.
func Aggregate(records []Record, dedupe bool) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if dedupe {
		out = lo.UniqBy(out, func(r Record) string {
			return r.Timestamp.UTC().Format(time.RFC3339Nano) +
				"\x00" + r.Content +
				"\x00" + string(r.CommandType)
		})
	}
	return out
}
