package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultStorageDriver = "file"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultTheme         = "auto"
	DefaultJournal       = true
)

// Config holds the full configuration for clientdesk.
type Config struct {
	// Storage
	DataDir       string `toml:"data_dir"`
	StorageDriver string `toml:"storage_driver"`
	SQLitePath    string `toml:"sqlite_path"`

	// Mutation journal
	Journal    bool   `toml:"journal"`
	JournalDir string `toml:"journal_dir"`

	// Post-mutation hook
	HookCommand string `toml:"hook_command"`

	// Prometheus textfile written after every mutation
	MetricsFile string `toml:"metrics_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Theme used when no preference is stored
	ThemeDefault string `toml:"theme_default"`

	// Today overrides the reference date (flag and env only)
	Today string `toml:"-"`
}
