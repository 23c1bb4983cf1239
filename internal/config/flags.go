package config

import (
	"flag"
)

// flagFields maps global flag names to config fields for source tracking.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"driver":         "storage_driver",
	"sqlite-path":    "sqlite_path",
	"journal":        "journal",
	"journal-dir":    "journal_dir",
	"hook":           "hook_command",
	"metrics-file":   "metrics_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"today":          "today",
}

// parseFlags defines the global flags on fs, parses args and records
// which fields were set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("clientdesk", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.StorageDriver, "driver", cfg.StorageDriver, "Storage driver (file|sqlite|memory)")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database path (sqlite driver)")

	// Journal, hook, metrics
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Record mutations in the journal")
	fs.StringVar(&cfg.JournalDir, "journal-dir", cfg.JournalDir, "Journal directory")
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Command to run after each change")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Prometheus textfile written after each change")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller in log output")

	// Reference date
	fs.StringVar(&cfg.Today, "today", cfg.Today, "Reference date YYYY-MM-DD (default: current UTC date)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
