package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nibzard/clientdesk/internal/storage"
	"github.com/nibzard/clientdesk/internal/theme"
	"github.com/nibzard/clientdesk/internal/utils"
)

// doctorCommand checks the config, the storage backend, the stored data and
// the optional hook and output paths.
func doctorCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.out
	cfg := a.cfg
	fmt.Fprintln(w, "clientdesk doctor")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if file := a.cws.ConfigFile(); file != "" {
		fmt.Fprintf(w, "  ✅ File: %s\n", file)
	} else {
		fmt.Fprintln(w, "  ✅ File: none (defaults)")
	}
	fmt.Fprintf(w, "  ✅ Driver: %s\n", cfg.StorageDriver)
	fmt.Fprintf(w, "  ✅ Reference date: %s\n", a.today())
	fmt.Fprintln(w)

	// Storage
	fmt.Fprintf(w, "Data directory: %s\n", cfg.DataDir)
	kv, err := a.openKV(ctx)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "⚠️  Some checks failed.")
		return fmt.Errorf("doctor checks failed")
	}
	fmt.Fprintf(w, "  ✅ Storage: %s\n", storage.Describe(kv))

	data, ok, err := storage.NewGateway(kv, a.logger).Raw(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Read %s: %v\n", storage.KeyClients, err)
		allOK = false
	case !ok:
		fmt.Fprintf(w, "  ⚠️  %s: not stored yet (starts empty)\n", storage.KeyClients)
	default:
		result := storage.Validate(data)
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.Valid {
			fmt.Fprintf(w, "  ✅ %s: valid (%d clients, %d tasks)\n", storage.KeyClients, result.Clients, result.Tasks)
		} else {
			fmt.Fprintf(w, "  ❌ %s: validation failed:\n", storage.KeyClients)
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		}
	}

	mode, err := theme.Load(ctx, kv, theme.Mode(cfg.ThemeDefault))
	if err != nil {
		fmt.Fprintf(w, "  ❌ Theme: %v\n", err)
		allOK = false
	} else if *verbose {
		fmt.Fprintf(w, "  ✅ Theme: %s\n", mode)
	}
	fmt.Fprintln(w)

	// Hook
	fmt.Fprintln(w, "Hook:")
	if cfg.HookCommand == "" {
		fmt.Fprintln(w, "  ✅ None configured")
	} else if !checkBinary(w, "command", cfg.HookCommand, true) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Journal and metrics output
	if cfg.Journal {
		if !checkDir(w, "Journal directory", cfg.JournalDir) {
			allOK = false
		}
	} else if *verbose {
		fmt.Fprintln(w, "Journal: disabled")
		fmt.Fprintln(w)
	}
	if cfg.MetricsFile != "" {
		if !checkDir(w, "Metrics directory", filepath.Dir(cfg.MetricsFile)) {
			allOK = false
		}
	}

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkDir reports whether dir exists or can be created later.
func checkDir(w io.Writer, label, dir string) bool {
	fmt.Fprintf(w, "%s: %s\n", label, dir)
	defer fmt.Fprintln(w)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		return false
	}
	fmt.Fprintln(w, "  ✅ OK")
	return true
}

func checkBinary(w io.Writer, label, binary string, required bool) bool {
	fmt.Fprintf(w, "  %s: %s\n", label, binary)
	fail := func(format string, args ...any) bool {
		icon := "⚠️ "
		if required {
			icon = "❌"
		}
		fmt.Fprintf(w, "  %s "+format+"\n", append([]any{icon}, args...)...)
		return !required
	}

	if strings.TrimSpace(binary) == "" {
		return fail("Not configured")
	}
	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() {
			return fail("Path is a directory")
		}
		if !utils.IsExecutable(binary, info) {
			return fail("Not executable")
		}
		fmt.Fprintln(w, "  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return fail("Not found: %v", err)
	}
	if info, err := os.Stat(resolved); err == nil && !utils.IsExecutable(resolved, info) {
		return fail("Found in PATH but not executable: %s", resolved)
	}
	fmt.Fprintf(w, "  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}
