package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/query"
	"github.com/nibzard/clientdesk/internal/utils"
	"github.com/nibzard/clientdesk/internal/view"
)

// lsCommand prints the client sidebar and the overdue badge.
func lsCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk ls")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	state := view.Build(store.All(), a.today())
	if len(state.Sidebar) == 0 {
		fmt.Fprintln(a.out, view.NoClients)
	}
	for _, item := range state.Sidebar {
		line := fmt.Sprintf("%-10s %s (%d tasks", item.Code, item.Name, item.Tasks)
		if item.Overdue > 0 {
			line += fmt.Sprintf(", %d overdue", item.Overdue)
		}
		fmt.Fprintln(a.out, line+")")
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, state.Badge())
	return nil
}

// clientCommand dispatches the client subcommands.
func clientCommand(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("client: missing subcommand (add|edit|rm|show)")
	}
	switch args[0] {
	case "add":
		return clientAddCommand(ctx, a, args[1:])
	case "edit":
		return clientEditCommand(ctx, a, args[1:])
	case "rm", "remove":
		return clientRemoveCommand(ctx, a, args[1:])
	case "show":
		return clientShowCommand(ctx, a, args[1:])
	}
	return fmt.Errorf("client: unknown subcommand %q (add|edit|rm|show)", args[0])
}

// clientFields binds the flags shared by client add and edit to persisted
// key names.
type clientFields struct {
	code, name, contact, email, phone, plan, start string
}

func (f *clientFields) bind(fs *flag.FlagSet) {
	fs.StringVar(&f.code, "code", "", "Client code (unique)")
	fs.StringVar(&f.name, "name", "", "Client name")
	fs.StringVar(&f.contact, "contact", "", "Contact name")
	fs.StringVar(&f.email, "email", "", "E-mail")
	fs.StringVar(&f.phone, "phone", "", "Phone")
	fs.StringVar(&f.plan, "plan", "", "Action plan")
	fs.StringVar(&f.start, "start", "", "Start date YYYY-MM-DD")
}

// visited returns the persisted keys of the flags set on the command line.
func (f *clientFields) visited(fs *flag.FlagSet) map[string]string {
	byFlag := map[string]struct {
		key   string
		value *string
	}{
		"code":    {"codigo", &f.code},
		"name":    {"nome-cliente", &f.name},
		"contact": {"nome-contato", &f.contact},
		"email":   {"email", &f.email},
		"phone":   {"telefone-01", &f.phone},
		"plan":    {"plano-acao", &f.plan},
		"start":   {"data-inicio", &f.start},
	}
	fields := map[string]string{}
	fs.Visit(func(fl *flag.Flag) {
		if b, ok := byFlag[fl.Name]; ok {
			fields[b.key] = *b.value
		}
	})
	return fields
}

func clientAddCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk client add")
	var f clientFields
	f.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	in := clients.ClientInput{
		StartDate:   f.start,
		Code:        strings.TrimSpace(f.code),
		ClientName:  f.name,
		ContactName: f.contact,
		Email:       f.email,
		Phone:       f.phone,
		ActionPlan:  f.plan,
	}
	if in.StartDate == "" {
		in.StartDate = a.today()
	}
	if err := clients.ValidateClientInput(in); err != nil {
		return err
	}

	store, err := a.openWritable(ctx)
	if err != nil {
		return err
	}
	added, err := store.Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added client %s (%s)\n", added.Code, added.ClientName)
	return nil
}

func clientEditCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk client edit")
	var f clientFields
	f.bind(fs)
	sets := map[string]string{}
	fs.Func("set", "Set a field by stored key, key=value (repeatable)", func(s string) error {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("want key=value, got %q", s)
		}
		sets[strings.TrimSpace(key)] = value
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("client edit: want exactly one client code")
	}
	code := fs.Arg(0)

	fields := f.visited(fs)
	for k, v := range sets {
		fields[k] = v
	}
	patch, err := clients.ParsePatch(fields)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return fmt.Errorf("client edit: nothing to change (keys: %s)", strings.Join(clients.PatchKeys(), ", "))
	}

	store, err := a.openWritable(ctx)
	if err != nil {
		return err
	}
	updated, err := store.Update(ctx, code, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated client %s\n", updated.Code)
	return nil
}

// clientRemoveCommand removes every listed client. Codes may also be given
// as one comma-separated argument.
func clientRemoveCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk client rm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var codes []string
	for _, arg := range fs.Args() {
		codes = append(codes, utils.SplitAndTrim(arg, ",")...)
	}
	if len(codes) == 0 {
		return fmt.Errorf("client rm: missing client code")
	}

	store, err := a.openWritable(ctx)
	if err != nil {
		return err
	}
	for _, code := range codes {
		err := store.Remove(ctx, code)
		if errors.Is(err, clients.ErrNotFound) {
			a.logger.Debug("no such client", "code", code)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Removed client %s\n", code)
	}
	return nil
}

func clientShowCommand(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk client show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("client show: want exactly one client code")
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	today := a.today()
	summary, ok := query.New(store.All()).Summarize(fs.Arg(0), today)
	if !ok {
		return fmt.Errorf("client show: no client with code %q", fs.Arg(0))
	}
	c := summary.Client
	fmt.Fprintf(a.out, "Start:   %s\n", c.StartDate)
	fmt.Fprintf(a.out, "Code:    %s\n", c.Code)
	fmt.Fprintf(a.out, "Client:  %s\n", c.ClientName)
	fmt.Fprintf(a.out, "Contact: %s\n", c.ContactName)
	fmt.Fprintf(a.out, "E-mail:  %s\n", c.Email)
	fmt.Fprintf(a.out, "Phone:   %s\n", c.Phone)
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Action plan:")
	fmt.Fprintf(a.out, "  %s\n", summary.Plan)
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Tasks: %d (%d overdue)\n", summary.Tasks, summary.Overdue)
	return nil
}

// newFlagSet returns a subcommand flag set writing usage to stderr.
func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}
