package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Roelanb/studyplan/internal/options"
)

func newOptionsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "options [domain...]",
		Short: "Print the dropdown option tables",
		Args: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if _, ok := options.TableFor(options.Domain(a)); !ok {
					return fmt.Errorf("unknown domain %q", a)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			want := map[string]bool{}
			for _, a := range args {
				want[options.Domain(a).TargetID()] = true
			}
			present := func(id string) bool { return len(want) == 0 || want[id] }
			populated := options.Populate(present)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(populated)
			}
			printTables(cmd.OutOrStdout(), populated)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print descriptors as JSON")
	return cmd
}

func printTables(w io.Writer, populated map[options.Domain][]options.Descriptor) {
	heading := color.New(color.FgCyan, color.Bold)
	value := color.New(color.FgHiBlack)
	for _, d := range options.Domains {
		descs, ok := populated[d]
		if !ok {
			continue
		}
		heading.Fprintf(w, "%s (%d)\n", d, len(descs))
		for _, o := range descs {
			if o.Value == o.Label {
				fmt.Fprintf(w, "  %s\n", o.Label)
				continue
			}
			fmt.Fprintf(w, "  %-16s %s\n", o.Label, value.Sprint(o.Value))
		}
	}
}
