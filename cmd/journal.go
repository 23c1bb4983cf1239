package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/clientdesk/internal/logging"
	"github.com/nibzard/clientdesk/internal/metrics"
)

// journalCommand tails the latest mutation journal of the data directory.
func journalCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk journal")
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 20, "Number of entries to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir, err := logging.FindJournalDir(a.cfg.JournalDir, a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("finding journal directory: %w", err)
	}
	path, err := logging.FindLatestLog(dir)
	if err != nil {
		return fmt.Errorf("finding latest journal: %w", err)
	}
	if path == "" {
		fmt.Fprintln(a.out, "No journal files found.")
		return nil
	}

	fmt.Fprintf(a.errOut, "Tailing: %s\n", path)
	if *follow {
		fmt.Fprintln(a.errOut, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, a.out, path, *n, *follow)
}

// metricsCommand writes the current dataset gauges as a Prometheus textfile.
func metricsCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk metrics")
	out := fs.String("o", a.cfg.MetricsFile, "Output file (default: metrics_file)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("metrics: no output file (use -o or set metrics_file)")
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	exp := metrics.New()
	exp.Observe(store.All(), a.today())
	if err := exp.WriteTextfile(*out); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote %s\n", *out)
	return nil
}
