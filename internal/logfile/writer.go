// Package logfile renders prompt records into the plain-text log format.
//
// The field labels and 80-character separator lines are a contract for
// consumers that parse the log programmatically; do not change them.
package logfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/janekbaraniewski/cursorlog/internal/extract"
)

var (
	separatorHeavy = strings.Repeat("=", 80)
	separatorLight = strings.Repeat("-", 80)
)

// Meta describes the run for the log header.
type Meta struct {
	GeneratedAt time.Time
	Workspace   string
}

// WriteError reports a log destination that could not be written. It is the
// one condition that aborts a run.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing log %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Write renders the header and one block per record into path. The file is
// written to a temporary sibling and renamed into place, so a failed run
// never leaves a partial log at the destination.
func Write(path string, meta Meta, records []extract.Record) error {
	var buf bytes.Buffer
	writeHeader(&buf, meta)
	for _, rec := range records {
		writeRecord(&buf, rec)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeHeader(w *bytes.Buffer, meta Meta) {
	workspace := meta.Workspace
	if workspace == "" {
		workspace = extract.WorkspaceUnknown
	}
	fmt.Fprintf(w, "Cursor Prompts Log - Generated at %s\n", meta.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Workspace: %s\n", workspace)
	w.WriteString(separatorHeavy + "\n\n")
}

func writeRecord(w *bytes.Buffer, rec extract.Record) {
	fmt.Fprintf(w, "Timestamp: %s\n", rec.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "Command Type: %s\n", rec.CommandType)
	w.WriteString("Content:\n")
	w.WriteString(rec.Content + "\n")
	w.WriteString("\nRaw Data:\n")
	w.WriteString(prettyRaw(rec.Raw) + "\n")
	w.WriteString(separatorLight + "\n\n")
}

// prettyRaw pretty-prints the raw payload, falling back to the verbatim
// bytes when they no longer parse. ConfigStd sorts map keys so repeated runs
// render identical output.
func prettyRaw(raw []byte) string {
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	pretty, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}
