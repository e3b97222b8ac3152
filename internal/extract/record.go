// Package extract reads Cursor's key-value databases and normalizes the
// prompt history they contain into Records.
package extract

import (
	"encoding/json"
	"time"
)

// CommandType classifies a prompt interaction.
type CommandType string

// CommandUnknown is the sentinel for codes the mapping does not cover.
const CommandUnknown CommandType = "unknown"

// commandTypes maps Cursor's numeric commandType codes to symbolic names.
var commandTypes = map[int]CommandType{
	1:  "chat",
	2:  "completion",
	3:  "insert",
	4:  "edit",
	5:  "delete",
	6:  "format",
	7:  "explain",
	8:  "test",
	9:  "fix",
	10: "optimize",
}

// Record is one normalized AI interaction entry. Records are immutable once
// constructed and are never written back to any source database.
type Record struct {
	// Timestamp is never zero: it is taken from the payload when present,
	// otherwise synthesized to preserve relative storage order.
	Timestamp   time.Time
	CommandType CommandType
	// Content is the extracted prompt text; possibly empty, never unset.
	Content string
	// Raw preserves the originating JSON payload for traceability.
	Raw json.RawMessage
	// Workspace is the best-effort label of the originating project.
	Workspace string
	// SourceDB is the database file the record came from.
	SourceDB string
}
