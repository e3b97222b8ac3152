package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
)

// WorkspaceUnknown is returned when no workspace can be derived for a
// database file.
const WorkspaceUnknown = "unknown"

// Workspace derives a human-readable workspace label for a database file.
// Per-workspace databases live at workspaceStorage/<hash>/state.vscdb with a
// sibling workspace.json naming the project folder; the global database
// lives under globalStorage. Never fails.
func Workspace(dbPath string) string {
	dir := filepath.Dir(dbPath)
	base := filepath.Base(dir)
	parent := filepath.Base(filepath.Dir(dir))

	switch {
	case parent == "workspaceStorage":
		if folder := workspaceFolder(filepath.Join(dir, "workspace.json")); folder != "" {
			return folder
		}
		return base
	case base == "globalStorage" || parent == "globalStorage":
		return "global"
	}
	return WorkspaceUnknown
}

// workspaceFolder reads the folder URI out of a workspace.json, stripping
// the file:// scheme. Empty when the file is missing or unrecognized.
func workspaceFolder(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var meta struct {
		Folder    string `json:"folder"`
		Workspace string `json:"workspace"`
	}
	if sonic.Unmarshal(data, &meta) != nil {
		return ""
	}

	folder := meta.Folder
	if folder == "" {
		folder = meta.Workspace
	}
	return strings.TrimPrefix(folder, "file://")
}
