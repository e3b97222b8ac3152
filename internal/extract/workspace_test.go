package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorkspace_FromWorkspaceJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "workspaceStorage", "a1b2c3")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	meta := []byte(`{"folder":"file:///home/user/projects/demo"}`)
	if err := os.WriteFile(filepath.Join(dir, "workspace.json"), meta, 0o644); err != nil {
		t.Fatal(err)
	}

	got := Workspace(filepath.Join(dir, "state.vscdb"))
	if got != "/home/user/projects/demo" {
		t.Errorf("Workspace = %q", got)
	}
}

func TestWorkspace_HashFallback(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "workspaceStorage", "a1b2c3")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	got := Workspace(filepath.Join(dir, "state.vscdb"))
	if got != "a1b2c3" {
		t.Errorf("Workspace = %q, want hash dir name", got)
	}
}

func TestWorkspace_Global(t *testing.T) {
	got := Workspace(filepath.Join("home", "User", "globalStorage", "state.vscdb"))
	if got != "global" {
		t.Errorf("Workspace = %q, want global", got)
	}
}

func TestWorkspace_UnrecognizedStructure(t *testing.T) {
	got := Workspace(filepath.Join(t.TempDir(), "random.db"))
	if got != WorkspaceUnknown {
		t.Errorf("Workspace = %q, want %q", got, WorkspaceUnknown)
	}
}

func TestWorkspace_BadWorkspaceJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "workspaceStorage", "deadbeef")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "workspace.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := Workspace(filepath.Join(dir, "state.vscdb"))
	if got != "deadbeef" {
		t.Errorf("Workspace = %q, want hash fallback", got)
	}
}
