package config

import (
	"os"
	"strings"
)

// envBindings maps environment variables to config fields.
var envBindings = []struct {
	name  string
	field string
	set   func(cfg *Config, v string)
}{
	{"CLIENTDESK_DATA_DIR", "data_dir", func(c *Config, v string) { c.DataDir = v }},
	{"CLIENTDESK_DRIVER", "storage_driver", func(c *Config, v string) { c.StorageDriver = v }},
	{"CLIENTDESK_SQLITE_PATH", "sqlite_path", func(c *Config, v string) { c.SQLitePath = v }},
	{"CLIENTDESK_JOURNAL", "journal", func(c *Config, v string) { c.Journal = boolFromString(v) }},
	{"CLIENTDESK_JOURNAL_DIR", "journal_dir", func(c *Config, v string) { c.JournalDir = v }},
	{"CLIENTDESK_HOOK", "hook_command", func(c *Config, v string) { c.HookCommand = v }},
	{"CLIENTDESK_METRICS_FILE", "metrics_file", func(c *Config, v string) { c.MetricsFile = v }},
	{"CLIENTDESK_LOG_LEVEL", "log_level", func(c *Config, v string) { c.LogLevel = v }},
	{"CLIENTDESK_LOG_FORMAT", "log_format", func(c *Config, v string) { c.LogFormat = v }},
	{"CLIENTDESK_LOG_TIMESTAMPS", "log_timestamps", func(c *Config, v string) { c.LogTimestamps = boolFromString(v) }},
	{"CLIENTDESK_LOG_CALLER", "log_caller", func(c *Config, v string) { c.LogCaller = boolFromString(v) }},
	{"CLIENTDESK_THEME", "theme_default", func(c *Config, v string) { c.ThemeDefault = v }},
	{"CLIENTDESK_TODAY", "today", func(c *Config, v string) { c.Today = v }},
}

// loadFromEnv overrides config from environment variables and records
// their source.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		b.set(cfg, v)
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
