package datadir

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	home := filepath.Join("home", "ana")
	root := Root(home)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"root", root, filepath.Join(home, ".clientdesk")},
		{"empty home", Root(""), ".clientdesk"},
		{"data", DataPath(root), filepath.Join(home, ".clientdesk", "data")},
		{"journal", JournalPath(root), filepath.Join(home, ".clientdesk", "journal")},
		{"config", ConfigPath(root), filepath.Join(home, ".clientdesk", "clientdesk.toml")},
		{"sqlite", SQLitePath("data"), filepath.Join("data", "clientdesk.db")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
