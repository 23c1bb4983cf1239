package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/nibzard/clientdesk/internal/theme"
	"github.com/nibzard/clientdesk/internal/ui"
)

// themeCommand shows the stored theme or stores a new one.
func themeCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk theme")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	kv, err := a.openKV(ctx)
	if err != nil {
		return err
	}

	if fs.NArg() == 1 {
		mode, err := theme.Parse(fs.Arg(0))
		if err != nil {
			return err
		}
		if err := theme.Save(ctx, kv, mode); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Theme set to %s\n", mode)
		return nil
	}

	mode, err := theme.Load(ctx, kv, theme.Mode(a.cfg.ThemeDefault))
	if err != nil {
		return err
	}
	if mode == theme.Auto {
		fmt.Fprintf(a.out, "%s (%s)\n", mode, theme.Resolve(mode, theme.TerminalIsDark))
		return nil
	}
	fmt.Fprintln(a.out, mode)
	return nil
}

// tuiCommand launches the terminal UI.
func tuiCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk tui")
	interval := fs.Duration("interval", 2*time.Second, "Reload interval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	store, err := a.openWritable(ctx)
	if err != nil {
		return err
	}
	mode, err := theme.Load(ctx, a.kv, theme.Mode(a.cfg.ThemeDefault))
	if err != nil {
		a.logger.Warn("using default theme", "err", err)
	}
	return ui.Run(ctx, ui.Options{
		Store:       store,
		Coordinator: a.coord,
		KV:          a.kv,
		Theme:       mode,
		Today:       a.today,
		Interval:    *interval,
		Logger:      a.logger,
	})
}
