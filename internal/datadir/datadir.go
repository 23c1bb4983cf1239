// Package datadir provides constants and paths for the clientdesk state directory.
package datadir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the state directory under the user's home.
	Dir = ".clientdesk"

	// DataSubdir holds the KV files.
	DataSubdir = "data"

	// JournalSubdir holds the mutation journals.
	JournalSubdir = "journal"

	// ConfigFile is the config file name (inside Dir).
	ConfigFile = "clientdesk.toml"

	// SQLiteFile is the default database file name (inside the data dir).
	SQLiteFile = "clientdesk.db"
)

// Root returns the state directory under home. An empty home falls back to
// the current directory.
func Root(home string) string {
	if home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// UserRoot returns the state directory of the current user.
func UserRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return Dir
	}
	return Root(home)
}

// DataPath returns the default data directory under root.
func DataPath(root string) string {
	return filepath.Join(root, DataSubdir)
}

// JournalPath returns the default journal directory under root.
func JournalPath(root string) string {
	return filepath.Join(root, JournalSubdir)
}

// ConfigPath returns the config file path under root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFile)
}

// SQLitePath returns the default database path inside dataDir.
func SQLitePath(dataDir string) string {
	return filepath.Join(dataDir, SQLiteFile)
}
