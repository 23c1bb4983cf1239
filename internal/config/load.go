package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/datadir"
	"github.com/nibzard/clientdesk/internal/storage"
	"github.com/nibzard/clientdesk/internal/theme"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	var files []string

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{Config: cfg, Sources: sources, Files: files}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"storage_driver",
		"sqlite_path",
		"journal",
		"journal_dir",
		"hook_command",
		"metrics_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"theme_default",
		"today",
	}
}

// loadConfigFile decodes a TOML file over cfg and marks every key the file
// defines with source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig expands paths, fills derived defaults and validates values.
func finalizeConfig(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.JournalDir = expandPath(cfg.JournalDir)
	cfg.SQLitePath = expandPath(cfg.SQLitePath)
	cfg.MetricsFile = expandPath(cfg.MetricsFile)

	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is empty")
	}
	if !filepath.IsAbs(cfg.DataDir) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.DataDir = filepath.Join(wd, cfg.DataDir)
	}

	driver, err := storage.ParseDriver(cfg.StorageDriver)
	if err != nil {
		return err
	}
	cfg.StorageDriver = string(driver)
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = datadir.SQLitePath(cfg.DataDir)
	}

	if cfg.ThemeDefault == "" {
		cfg.ThemeDefault = DefaultTheme
	}
	mode, err := theme.Parse(cfg.ThemeDefault)
	if err != nil {
		return fmt.Errorf("theme_default: %w", err)
	}
	cfg.ThemeDefault = string(mode)

	if cfg.Today != "" && !clients.ValidDate(cfg.Today) {
		return fmt.Errorf("today: invalid date %q, want YYYY-MM-DD", cfg.Today)
	}
	return nil
}

// expandPath expands $VAR, %VAR% on Windows, and a leading ~ in p.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = windowsEnvPattern.ReplaceAllStringFunc(p, func(m string) string {
			if v, ok := os.LookupEnv(m[1 : len(m)-1]); ok {
				return v
			}
			return m
		})
	}
	if p != "~" && !strings.HasPrefix(p, "~/") && !(runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

var windowsEnvPattern = regexp.MustCompile(`%[^%]+%`)
