package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# clientdesk configuration file
# Values can be overridden by CLIENTDESK_* environment variables or CLI flags

# Directory holding the stored data (supports ~ and $VAR expansion)
data_dir = "~/.clientdesk/data"

# Storage driver: file, sqlite or memory
storage_driver = "file"

# Database path for the sqlite driver (default: <data_dir>/clientdesk.db)
# sqlite_path = "~/.clientdesk/data/clientdesk.db"

# Record every change in a JSONL journal
journal = true
journal_dir = "~/.clientdesk/journal"

# Command to run after each change; receives op, client code, task index
# and overdue count as arguments
# hook_command = "/path/to/hook.sh"

# Prometheus textfile written after each change
# metrics_file = "/var/lib/node_exporter/clientdesk.prom"

# Console logging
log_level = "warn"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false

# Theme used until one is chosen with "clientdesk theme": light, dark or auto
theme_default = "auto"
`
}
