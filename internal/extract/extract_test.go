package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_SingleComposerRow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	writeFixtureDB(t, dbPath, "cursorDiskKV", []kvRow{
		{"composerData:chat1", `{"text":"Hello","commandType":1}`},
	})

	records := Extract(context.Background(), []string{dbPath}, Options{Now: time.Now()})

	require.Len(t, records, 1)
	assert.Equal(t, "Hello", records[0].Content)
	assert.Equal(t, CommandType("chat"), records[0].CommandType)
	assert.Equal(t, dbPath, records[0].SourceDB)
	assert.NotEmpty(t, records[0].Workspace)
}

func TestExtract_InvalidJSONRowSkipped(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	writeFixtureDB(t, dbPath, "ItemTable", []kvRow{
		{"aiService.prompts", `not valid json`},
		{"aiService.generations", `[{"text":"kept"}]`},
	})

	records := Extract(context.Background(), []string{dbPath}, Options{Now: time.Now()})

	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Content)
}

func TestExtract_UnreadableDatabaseSkipped(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.vscdb")
	writeFixtureDB(t, good, "ItemTable", []kvRow{
		{"aiService.prompts", `[{"text":"survives"}]`},
	})
	bad := filepath.Join(dir, "bad.vscdb")
	if err := os.WriteFile(bad, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	records := Extract(context.Background(), []string{bad, good}, Options{Now: time.Now()})

	require.Len(t, records, 1)
	assert.Equal(t, "survives", records[0].Content)
}

func TestExtract_WorkspaceStamped(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "workspaceStorage", "cafe01")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	meta := []byte(`{"folder":"file:///work/demo"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workspace.json"), meta, 0o644))

	dbPath := filepath.Join(dir, "state.vscdb")
	writeFixtureDB(t, dbPath, "ItemTable", []kvRow{
		{"aiService.prompts", `[{"text":"hi"}]`},
	})

	records := Extract(context.Background(), []string{dbPath}, Options{Now: time.Now()})

	require.Len(t, records, 1)
	assert.Equal(t, "/work/demo", records[0].Workspace)
}

func TestExtract_TwoDatabasesDedupeAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	payload := `[{"text":"same prompt","commandType":1,"timestamp":"2024-03-01T10:00:00Z"}]`

	one := filepath.Join(dir, "one.vscdb")
	writeFixtureDB(t, one, "ItemTable", []kvRow{{"aiService.prompts", payload}})
	two := filepath.Join(dir, "two.vscdb")
	writeFixtureDB(t, two, "ItemTable", []kvRow{{"aiService.prompts", payload}})

	records := Extract(context.Background(), []string{one, two}, Options{Now: time.Now()})
	require.Len(t, records, 2)

	deduped := Aggregate(records, true)
	require.Len(t, deduped, 1)
	assert.Equal(t, one, deduped[0].SourceDB)

	kept := Aggregate(records, false)
	assert.Len(t, kept, 2)
}

func TestExtract_SynthesizedInstantsDistinctAcrossRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	writeFixtureDB(t, dbPath, "ItemTable", []kvRow{
		{"aiService.prompts", `[{"text":"same"},{"noText":1}]`},
		{"aiService.generations", `{"text":"same"}`},
	})

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	records := Extract(context.Background(), []string{dbPath}, Options{Now: now})
	require.Len(t, records, 2)
	assert.False(t, records[0].Timestamp.Equal(records[1].Timestamp),
		"timestamp-less rows must not share synthesized instants")

	// Identical text in distinct stored prompts must survive deduplication.
	deduped := Aggregate(records, true)
	assert.Len(t, deduped, 2)
}

func TestExtract_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	writeFixtureDB(t, dbPath, "ItemTable", []kvRow{
		{"aiService.prompts", `[{"text":"a","timestamp":"2024-01-01T00:00:00Z"},{"text":"b","timestamp":"2024-01-02T00:00:00Z"}]`},
	})

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	first := Aggregate(Extract(context.Background(), []string{dbPath}, Options{Now: now}), true)
	second := Aggregate(Extract(context.Background(), []string{dbPath}, Options{Now: now}), true)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Content, second[i].Content)
		assert.True(t, first[i].Timestamp.Equal(second[i].Timestamp))
	}
}
