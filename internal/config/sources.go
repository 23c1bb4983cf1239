package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/nibzard/clientdesk/internal/datadir"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{"clientdesk.toml", ".clientdesk.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.clientdesk/clientdesk.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := datadir.ConfigPath(datadir.Root(home))
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "clientdesk", datadir.ConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	root := datadir.UserRoot()
	cfg.DataDir = datadir.DataPath(root)
	cfg.StorageDriver = DefaultStorageDriver
	cfg.Journal = DefaultJournal
	cfg.JournalDir = datadir.JournalPath(root)
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.ThemeDefault = DefaultTheme
}

// ConfigFile returns the config file with the highest priority that was
// read, or "" when none was.
func (cws *ConfigWithSources) ConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// Entry is one effective setting and where it came from.
type Entry struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Entries lists every setting in documented order.
func (cws *ConfigWithSources) Entries() []Entry {
	fields := configFields()
	entries := make([]Entry, 0, len(fields))
	for _, key := range fields {
		entries = append(entries, Entry{
			Key:    key,
			Value:  cws.Config.value(key),
			Source: cws.Sources[key],
		})
	}
	return entries
}

func (c *Config) value(key string) string {
	switch key {
	case "data_dir":
		return c.DataDir
	case "storage_driver":
		return c.StorageDriver
	case "sqlite_path":
		return c.SQLitePath
	case "journal":
		return strconv.FormatBool(c.Journal)
	case "journal_dir":
		return c.JournalDir
	case "hook_command":
		return c.HookCommand
	case "metrics_file":
		return c.MetricsFile
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	case "theme_default":
		return c.ThemeDefault
	case "today":
		return c.Today
	}
	return ""
}
