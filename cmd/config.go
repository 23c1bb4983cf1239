package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nibzard/clientdesk/internal/config"
)

// configCommand prints the effective configuration with the source of each
// value, or an example config file.
func configCommand(a *app, args []string) error {
	fs := newFlagSet(a, "clientdesk config")
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}

	for _, file := range a.cws.Files {
		fmt.Fprintf(a.out, "# read %s\n", file)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, e := range a.cws.Entries() {
		value := e.Value
		if value == "" {
			value = `""`
		}
		fmt.Fprintf(tw, "%s\t%s\t(%s)\n", e.Key, value, e.Source)
	}
	return tw.Flush()
}
