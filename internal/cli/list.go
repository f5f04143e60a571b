package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/pipeline"
)

// listEntry is the JSON form of a material summary.
type listEntry struct {
	Name     string `json:"name"`
	UseNodes bool   `json:"use_nodes"`
	Nodes    int    `json:"nodes"`
	Links    int    `json:"links"`
	Root     string `json:"root,omitempty"`
	Error    string `json:"error,omitempty"`
}

// listCommand creates the list command showing the materials of a library.
func (c *CLI) listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [library]",
		Short: "List materials and the node each report starts from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			lib, err := runner.LoadLibrary(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			sums := pipeline.Summarize(lib)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(listEntries(sums))
			}
			if len(sums) == 0 {
				printInfo(out, "No materials in %s", args[0])
				return nil
			}
			fmt.Fprintln(out, materialTable(sums))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func listEntries(sums []pipeline.MaterialSummary) []listEntry {
	out := make([]listEntry, len(sums))
	for i, s := range sums {
		out[i] = listEntry{Name: s.Name, UseNodes: s.UseNodes, Nodes: s.Nodes, Links: s.Links, Root: s.Root}
		if s.Err != nil {
			out[i].Error = string(errors.GetCode(s.Err))
		}
	}
	return out
}
