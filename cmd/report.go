package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/query"
	"github.com/nibzard/clientdesk/internal/view"
)

// reportCommand prints one of the fixed reports, the tasks due on a date,
// or the tasks of one client.
func reportCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk report")
	date := fs.String("date", "", "List tasks due on this date (YYYY-MM-DD)")
	code := fs.String("client", "", "List the tasks of this client")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	if *date != "" && *code != "" {
		return fmt.Errorf("report: -date and -client are exclusive")
	}
	if *date != "" && !clients.ValidDate(*date) {
		return &clients.ValidationError{Field: "date", Err: fmt.Errorf("invalid date %q, want YYYY-MM-DD", *date)}
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	q := query.New(store.All())
	today := a.today()

	var r query.Report
	switch {
	case *date != "":
		r = q.DateReport(*date)
	case *code != "":
		r = q.ClientReport(*code)
	default:
		kind, err := query.ParseReportKind(fs.Arg(0))
		if err != nil {
			return err
		}
		r = q.Report(kind, today)
	}
	printReport(a, r, today)
	return nil
}

func printReport(a *app, r query.Report, today string) {
	fmt.Fprintln(a.out, r.Title)
	fmt.Fprintln(a.out, strings.Repeat("=", len(r.Title)))
	if len(r.Rows) == 0 {
		fmt.Fprintln(a.out, query.EmptyMessage)
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DUE\tCLIENT\tTASK\tSTATUS\t")
	for _, row := range r.Rows {
		status := string(row.Task.Status)
		if row.Overdue(today) {
			status += " (overdue)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", row.Task.DueDate, row.ClientName, row.Task.Title, status)
		if row.Task.Description != "" {
			fmt.Fprintf(tw, "\t\t  %s\t\t\n", row.Task.Description)
		}
	}
	tw.Flush()
}

// badgeCommand prints the number of overdue tasks.
func badgeCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk badge")
	quiet := fs.Bool("q", false, "Print only the number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	n := query.New(store.All()).CountOverdue(a.today())
	if *quiet {
		fmt.Fprintln(a.out, strconv.Itoa(n))
		return nil
	}
	fmt.Fprintln(a.out, view.FormatBadge(n))
	return nil
}
