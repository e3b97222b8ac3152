// Package storage locates Cursor's on-disk databases across operating systems.
//
// Cursor persists editor state in SQLite files under a handful of well-known
// locations:
//   - <base>/Cursor/User/workspaceStorage/<hash>/state.vscdb — per-workspace
//   - <base>/Cursor/User/globalStorage/state.vscdb           — global
//
// where <base> is the OS application-support directory. The search roots can
// be replaced entirely with the CURSOR_STORAGE_PATH environment variable.
package storage

import (
	"os"
	"path/filepath"
)

// EnvStoragePath overrides the OS-default search roots when set and existing.
const EnvStoragePath = "CURSOR_STORAGE_PATH"

// storageSubdirs are the locations Cursor uses under each base directory.
var storageSubdirs = []string{
	filepath.Join("Cursor", "User", "workspaceStorage"),
	filepath.Join("Cursor", "User", "globalStorage"),
	filepath.Join("Cursor", "Storage"),
	filepath.Join("Cursor", "User", "state.vscdb"),
}

// baseDirs returns the OS-specific application data directories to search.
func baseDirs(goos, home string) []string {
	switch goos {
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Application Support"),
			filepath.Join(home, "Library", "Caches"),
			filepath.Join(home, "Library", "Preferences"),
		}
	case "windows":
		roaming := filepath.Join(home, "AppData", "Roaming")
		if appData := os.Getenv("APPDATA"); appData != "" {
			roaming = appData
		}
		return []string{
			roaming,
			filepath.Join(home, "AppData", "Local"),
			filepath.Join(home, "AppData", "LocalLow"),
		}
	case "linux":
		return []string{
			filepath.Join(home, ".config"),
			filepath.Join(home, ".local", "share"),
			filepath.Join(home, ".cache"),
		}
	}
	return []string{home}
}

// Roots returns the storage locations to search for databases. An override
// path that exists replaces the OS defaults entirely; otherwise the default
// candidates are filtered to those present on disk. An empty result is not
// an error: it means no Cursor installation was found.
func Roots(goos, override string) []string {
	if override != "" && pathExists(override) {
		return []string{override}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	var roots []string
	for _, base := range baseDirs(goos, home) {
		for _, sub := range storageSubdirs {
			p := filepath.Join(base, sub)
			if pathExists(p) {
				roots = append(roots, p)
			}
		}
	}
	return roots
}

// pathExists checks if a file or directory exists.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
