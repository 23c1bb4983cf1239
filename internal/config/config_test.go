package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME and the working directory at temp dirs and clears
// CLIENTDESK_* variables so no real config leaks into a test.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, b := range envBindings {
		t.Setenv(b.name, "")
	}
	t.Chdir(work)
	return home, work
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("clientdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if want := filepath.Join(home, ".clientdesk", "data"); cfg.DataDir != want {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, want)
	}
	if want := filepath.Join(home, ".clientdesk", "journal"); cfg.JournalDir != want {
		t.Errorf("JournalDir: got %q, want %q", cfg.JournalDir, want)
	}
	if cfg.StorageDriver != DefaultStorageDriver {
		t.Errorf("StorageDriver: got %q, want %q", cfg.StorageDriver, DefaultStorageDriver)
	}
	if want := filepath.Join(cfg.DataDir, "clientdesk.db"); cfg.SQLitePath != want {
		t.Errorf("SQLitePath: got %q, want %q", cfg.SQLitePath, want)
	}
	if !cfg.Journal {
		t.Error("Journal: got false, want true")
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ThemeDefault != "auto" {
		t.Errorf("ThemeDefault: got %q, want auto", cfg.ThemeDefault)
	}
}

func TestLayeredSources(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(home, ".clientdesk", "clientdesk.toml"), `
data_dir = "~/desk"
log_level = "info"
hook_command = "user-hook"
`)
	writeFile(t, filepath.Join(work, "clientdesk.toml"), `
log_level = "debug"
storage_driver = "sqlite"
`)
	t.Setenv("CLIENTDESK_HOOK", "env-hook")
	t.Setenv("CLIENTDESK_LOG_TIMESTAMPS", "yes")

	cws, err := LoadWithSources(newFlagSet(), []string{"-driver", "memory", "-today", "2024-06-01", "ls"})
	if err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"data_dir", cfg.DataDir, filepath.Join(home, "desk"), SourceUserFile},
		{"log_level", cfg.LogLevel, "debug", SourceProjFile},
		{"hook_command", cfg.HookCommand, "env-hook", SourceEnv},
		{"storage_driver", cfg.StorageDriver, "memory", SourceFlag},
		{"today", cfg.Today, "2024-06-01", SourceFlag},
		{"log_format", cfg.LogFormat, "text", SourceDefault},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.field, tt.got, tt.want)
		}
		if cws.Sources[tt.field] != tt.source {
			t.Errorf("%s source: got %q, want %q", tt.field, cws.Sources[tt.field], tt.source)
		}
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if len(cws.Files) != 2 || cws.ConfigFile() != "clientdesk.toml" {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestFlagsStopAtCommand(t *testing.T) {
	isolate(t)
	fs := newFlagSet()
	if _, err := Load(fs, []string{"-journal=false", "task", "add", "-title", "x"}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := strings.Join(fs.Args(), " "); got != "task add -title x" {
		t.Errorf("remaining args: got %q", got)
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		file string
	}{
		{"bad driver", []string{"-driver", "bolt"}, ""},
		{"bad today", []string{"-today", "06/01/2024"}, ""},
		{"bad theme", nil, `theme_default = "sepia"`},
		{"unknown key", nil, `colour = "red"`},
		{"bad toml", nil, `data_dir = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, work := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(work, ".clientdesk.toml"), tt.file)
			}
			if _, err := Load(newFlagSet(), tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRelativeDataDir(t *testing.T) {
	_, work := isolate(t)
	cfg, err := Load(newFlagSet(), []string{"-data-dir", "store"})
	if err != nil {
		t.Fatal(err)
	}
	// macOS temp dirs may resolve through a symlink.
	wd, _ := os.Getwd()
	if cfg.DataDir != filepath.Join(wd, "store") && cfg.DataDir != filepath.Join(work, "store") {
		t.Errorf("DataDir: got %q", cfg.DataDir)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("DESK_ROOT", "/srv/desk")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/data", filepath.Join(home, "data")},
		{"$DESK_ROOT/data", "/srv/desk/data"},
		{"/abs/path", "/abs/path"},
		{"~user/data", "~user/data"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "clientdesk.toml"), ExampleConfig())
	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cws.Sources["storage_driver"] != SourceProjFile {
		t.Errorf("storage_driver source: got %q", cws.Sources["storage_driver"])
	}
}

func TestEntries(t *testing.T) {
	isolate(t)
	t.Setenv("CLIENTDESK_DRIVER", "sqlite")
	cws, err := LoadWithSources(newFlagSet(), []string{"-journal=false"})
	if err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	got := map[string]Entry{}
	for _, e := range cws.Entries() {
		got[e.Key] = e
	}
	if len(got) != len(configFields()) {
		t.Fatalf("Entries: got %d keys, want %d", len(got), len(configFields()))
	}
	if e := got["storage_driver"]; e.Value != "sqlite" || e.Source != SourceEnv {
		t.Errorf("storage_driver: got %+v", e)
	}
	if e := got["journal"]; e.Value != "false" || e.Source != SourceFlag {
		t.Errorf("journal: got %+v", e)
	}
	if e := got["log_level"]; e.Value != DefaultLogLevel || e.Source != SourceDefault {
		t.Errorf("log_level: got %+v", e)
	}
}
