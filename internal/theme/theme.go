// Package theme stores the light/dark preference and resolves "auto".
package theme

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/clientdesk/internal/storage"
)

// Mode is a theme preference.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
	Auto  Mode = "auto"
)

// Default applies when nothing is stored.
const Default = Auto

// Parse validates a preference name.
func Parse(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Light, Dark, Auto:
		return m, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or auto)", s)
}

// Load returns the stored preference, or fallback when none is stored or
// the stored value is not a known mode.
func Load(ctx context.Context, kv storage.KV, fallback Mode) (Mode, error) {
	data, ok, err := kv.Get(ctx, storage.KeyTheme)
	if err != nil {
		return fallback, fmt.Errorf("read theme: %w", err)
	}
	if !ok {
		return fallback, nil
	}
	m, err := Parse(string(data))
	if err != nil {
		return fallback, nil
	}
	return m, nil
}

// Save stores m as a bare string.
func Save(ctx context.Context, kv storage.KV, m Mode) error {
	if _, err := Parse(string(m)); err != nil {
		return err
	}
	if err := kv.Set(ctx, storage.KeyTheme, []byte(m)); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// Resolve turns Auto into Light or Dark using isDark. Other modes are
// returned unchanged.
func Resolve(m Mode, isDark func() bool) Mode {
	if m != Auto {
		return m
	}
	if isDark != nil && isDark() {
		return Dark
	}
	return Light
}

// TerminalIsDark reports whether the terminal has a dark background.
func TerminalIsDark() bool {
	return lipgloss.HasDarkBackground()
}
