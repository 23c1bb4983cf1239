// Package cmd implements the CLI command structure for clientdesk.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/config"
	"github.com/nibzard/clientdesk/internal/hooks"
	"github.com/nibzard/clientdesk/internal/logging"
	"github.com/nibzard/clientdesk/internal/metrics"
	"github.com/nibzard/clientdesk/internal/storage"
	"github.com/nibzard/clientdesk/internal/view"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the clientdesk CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("clientdesk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	// No subcommand lists clients.
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	a := newApp(cws, stdout, stderr)
	defer a.close()

	switch subcommand {
	case "ls":
		err = lsCommand(ctx, a, remainingArgs)
	case "client":
		err = clientCommand(ctx, a, remainingArgs)
	case "task":
		err = taskCommand(ctx, a, remainingArgs)
	case "report":
		err = reportCommand(ctx, a, remainingArgs)
	case "badge":
		err = badgeCommand(ctx, a, remainingArgs)
	case "theme":
		err = themeCommand(ctx, a, remainingArgs)
	case "tui":
		err = tuiCommand(ctx, a, remainingArgs)
	case "doctor":
		err = doctorCommand(ctx, a, remainingArgs)
	case "journal":
		err = journalCommand(ctx, a, remainingArgs)
	case "metrics":
		err = metricsCommand(ctx, a, remainingArgs)
	case "config":
		err = configCommand(a, remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}

	if errors.Is(err, clients.ErrNotFound) {
		// Stale selections are a silent no-op.
		a.logger.Debug("nothing to do", "err", err)
		return nil
	}
	if err != nil {
		return err
	}
	a.printBadge()
	return nil
}

// app holds what a command needs: configuration, output and the lazily
// opened store.
type app struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer
	logger *log.Logger

	kv      storage.KV
	store   *clients.Store
	coord   *view.Coordinator
	journal *logging.Journal
	last    *view.State
}

func newApp(cws *config.ConfigWithSources, stdout, stderr io.Writer) *app {
	cfg := cws.Config
	return &app{
		cws:    cws,
		cfg:    cfg,
		out:    stdout,
		errOut: stderr,
		logger: logging.NewConsoleFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
	}
}

// today returns the reference date: the configured override or the current
// UTC date.
func (a *app) today() string {
	if a.cfg.Today != "" {
		return a.cfg.Today
	}
	return clients.Today(time.Now())
}

func (a *app) openKV(ctx context.Context) (storage.KV, error) {
	if a.kv != nil {
		return a.kv, nil
	}
	kv, err := storage.Open(ctx, storage.Options{
		Driver:     storage.Driver(a.cfg.StorageDriver),
		Dir:        a.cfg.DataDir,
		SQLitePath: a.cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	a.kv = kv
	a.logger.Debug("storage opened", "location", storage.Describe(kv))
	return kv, nil
}

// openStore loads the dataset for a read-only command.
func (a *app) openStore(ctx context.Context) (*clients.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	kv, err := a.openKV(ctx)
	if err != nil {
		return nil, err
	}
	store, err := clients.NewStore(ctx, storage.NewGateway(kv, a.logger), clients.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// openWritable loads the dataset and attaches the coordinator that keeps
// the journal, metrics, hook and badge in step with every mutation.
func (a *app) openWritable(ctx context.Context) (*clients.Store, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if a.coord != nil {
		return store, nil
	}

	opts := view.Options{
		Today:  a.today,
		Logger: a.logger,
		Hook:   hooks.Options{Command: a.cfg.HookCommand, Stdout: a.errOut, Stderr: a.errOut},
	}
	if a.cfg.Journal {
		journal, err := logging.NewJournal(a.cfg.JournalDir, a.cfg.DataDir)
		if err != nil {
			a.logger.Warn("journal disabled", "err", err)
		} else {
			a.journal = journal
			opts.Journal = journal
		}
	}
	if a.cfg.MetricsFile != "" {
		opts.Metrics = metrics.New()
		opts.MetricsFile = a.cfg.MetricsFile
	}
	a.coord = view.New(ctx, store, opts)
	a.coord.Register(view.RefreshFunc(func(s view.State) {
		a.last = &s
	}))
	return store, nil
}

// printBadge prints the overdue badge after a command that changed data.
func (a *app) printBadge() {
	if a.last == nil {
		return
	}
	fmt.Fprintln(a.out, a.last.Badge())
}

func (a *app) close() {
	if a.coord != nil {
		a.coord.Close()
	}
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("closing journal", "err", err)
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.logger.Warn("closing storage", "err", err)
		}
	}
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "clientdesk version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "clientdesk - Track clients and their tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  clientdesk [global options] [command] [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ls                      List clients and the overdue badge (default)")
	fmt.Fprintln(w, "  client add              Add a client")
	fmt.Fprintln(w, "  client edit CODE        Change client fields")
	fmt.Fprintln(w, "  client rm CODE...       Remove clients and their tasks")
	fmt.Fprintln(w, "  client show CODE        Show the client summary card")
	fmt.Fprintln(w, "  task ls -client CODE    List a client's tasks")
	fmt.Fprintln(w, "  task add -client CODE   Add a task")
	fmt.Fprintln(w, "  task edit -client CODE N  Edit task N (it moves to the end)")
	fmt.Fprintln(w, "  task rm -client CODE N  Remove task N")
	fmt.Fprintln(w, "  report [KIND]           Task report: report, today, overdue, future")
	fmt.Fprintln(w, "  badge                   Print the overdue count")
	fmt.Fprintln(w, "  theme [MODE]            Show or set the theme (light|dark|auto)")
	fmt.Fprintln(w, "  tui                     Launch terminal UI")
	fmt.Fprintln(w, "  doctor                  Check config, storage and stored data")
	fmt.Fprintln(w, "  journal                 Tail the latest mutation journal")
	fmt.Fprintln(w, "  metrics                 Write a Prometheus textfile")
	fmt.Fprintln(w, "  config                  Print the effective configuration")
	fmt.Fprintln(w, "  version                 Show version information")
	fmt.Fprintln(w, "  help                    Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Task numbers are 1-based, as printed by 'task ls'.")
	fmt.Fprintln(w, "Run 'clientdesk <command> -h' for command options.")
}
