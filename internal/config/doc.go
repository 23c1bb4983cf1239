// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.clientdesk/clientdesk.toml or OS-specific config directory)
// 3. Project config file (clientdesk.toml or .clientdesk.toml in the current directory)
// 4. Environment variables (CLIENTDESK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.clientdesk/clientdesk.toml (preferred)
// - Windows: %APPDATA%\clientdesk\clientdesk.toml
// - macOS: ~/Library/Application Support/clientdesk/clientdesk.toml
// - Linux/BSD: $XDG_CONFIG_HOME/clientdesk/clientdesk.toml or ~/.config/clientdesk/clientdesk.toml
package config
