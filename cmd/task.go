package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/view"
)

// taskCommand dispatches the task subcommands. Every one acts on the client
// named by -client.
func taskCommand(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("task: missing subcommand (add|edit|rm|ls)")
	}
	switch args[0] {
	case "add":
		return taskAddCommand(ctx, a, args[1:])
	case "edit":
		return taskEditCommand(ctx, a, args[1:])
	case "rm", "remove":
		return taskRemoveCommand(ctx, a, args[1:])
	case "ls", "list":
		return taskListCommand(ctx, a, args[1:])
	}
	return fmt.Errorf("task: unknown subcommand %q (add|edit|rm|ls)", args[0])
}

type taskFields struct {
	title, due, desc, status, created string
}

func (f *taskFields) bind(fs *flag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "Task title")
	fs.StringVar(&f.due, "due", "", "Due date YYYY-MM-DD")
	fs.StringVar(&f.desc, "desc", "", "Description")
	fs.StringVar(&f.status, "status", "", "Status (pending|in-progress|completed or any text)")
	fs.StringVar(&f.created, "created", "", "Created date YYYY-MM-DD (default: today)")
}

// applyVisited copies the flags set on the command line into t.
func (f *taskFields) applyVisited(fs *flag.FlagSet, t *clients.Task) int {
	n := 0
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			t.Title = f.title
		case "due":
			t.DueDate = f.due
		case "desc":
			t.Description = f.desc
		case "status":
			t.Status = clients.ParseStatus(f.status)
		case "created":
			t.CreatedDate = f.created
		default:
			return
		}
		n++
	})
	return n
}

func selectionFlag(fs *flag.FlagSet) *string {
	return fs.String("client", "", "Client code")
}

func requireSelection(code string) (clients.Selection, error) {
	sel := clients.Select(code)
	if sel.IsZero() {
		return sel, fmt.Errorf("missing -client CODE")
	}
	return sel, nil
}

// parseTaskNumber converts a 1-based task number into a list index.
func parseTaskNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q (use the numbers printed by 'task ls')", s)
	}
	return n - 1, nil
}

func taskAddCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk task add")
	code := selectionFlag(fs)
	var f taskFields
	f.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	sel, err := requireSelection(*code)
	if err != nil {
		return err
	}

	t := clients.Task{
		CreatedDate: f.created,
		DueDate:     f.due,
		Title:       f.title,
		Description: f.desc,
		Status:      clients.ParseStatus(f.status),
	}
	if t.CreatedDate == "" {
		t.CreatedDate = a.today()
	}
	if err := clients.ValidateTask(t); err != nil {
		return err
	}

	store, err := a.openWritable(ctx)
	if err != nil {
		return err
	}
	if err := store.AppendTask(ctx, sel, t); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added task %q to %s\n", t.Title, sel.Code)
	return nil
}

// taskEditCommand stages the task, applies the changed fields and commits
// it. The edited task moves to the end of the list.
func taskEditCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk task edit")
	code := selectionFlag(fs)
	var f taskFields
	f.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("task edit: want exactly one task number")
	}
	sel, err := requireSelection(*code)
	if err != nil {
		return err
	}
	index, err := parseTaskNumber(fs.Arg(0))
	if err != nil {
		return err
	}

	store, err := a.openWritable(ctx)
	if err != nil {
		return err
	}
	staged, err := store.BeginTaskEdit(sel, index)
	if err != nil {
		return err
	}
	if f.applyVisited(fs, &staged.Task) == 0 {
		return fmt.Errorf("task edit: nothing to change")
	}
	if err := clients.ValidateTask(staged.Task); err != nil {
		return err
	}
	if err := store.CommitTaskEdit(ctx, staged); err != nil {
		return err
	}
	tasks, err := store.Tasks(sel)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated task %q, now number %d\n", staged.Task.Title, len(tasks))
	return nil
}

func taskRemoveCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk task rm")
	code := selectionFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("task rm: want exactly one task number")
	}
	sel, err := requireSelection(*code)
	if err != nil {
		return err
	}
	index, err := parseTaskNumber(fs.Arg(0))
	if err != nil {
		return err
	}

	store, err := a.openWritable(ctx)
	if err != nil {
		return err
	}
	if err := store.RemoveTaskAt(ctx, sel, index); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed task %d from %s\n", index+1, sel.Code)
	return nil
}

func taskListCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk task ls")
	code := selectionFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	sel, err := requireSelection(*code)
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	c, ok := store.Find(sel.Code)
	if !ok {
		return fmt.Errorf("task ls: no client with code %q", sel.Code)
	}

	today := a.today()
	fmt.Fprintf(a.out, "%s (%d tasks)\n\n", c.ClientName, len(c.Tasks))
	if len(c.Tasks) == 0 {
		fmt.Fprintln(a.out, view.NoTasks)
		return nil
	}
	for i, t := range c.Tasks {
		marker := ""
		if t.IsOverdue(today) {
			marker = "  OVERDUE"
		}
		fmt.Fprintf(a.out, "%3d. %s  %s [%s]%s\n", i+1, t.DueDate, t.Title, t.Status, marker)
		if t.Description != "" {
			fmt.Fprintf(a.out, "       %s\n", t.Description)
		}
		fmt.Fprintf(a.out, "       created %s\n", t.CreatedDate)
	}
	return nil
}
