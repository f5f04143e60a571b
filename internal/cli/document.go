package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/pipeline"
)

// documentCommand creates the document command that writes a text report.
func (c *CLI) documentCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "document [library]",
		Short: "Write the text report of a material's node graph",
		Long: `Write the text report of a material's node graph.

The library is a JSON, YAML or TOML file (or an http(s) URL to one)
describing materials and node groups. The report starts at the material's
output node and walks every connected input backwards; node groups are
expanded in place.

Without --material the command opens a picker when run in a terminal.
Without --output the report is written to <output.dir>/<material>.txt from
the config file; use "-o -" to print it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Library = args[0]
			return c.runDocument(cmd, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.Material, "material", "m", "", "material to document")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", `report path ("-" for stdout)`)
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached reports and downloads")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runDocument resolves the material and output, then runs the pipeline.
func (c *CLI) runDocument(cmd *cobra.Command, opts pipeline.Options, noCache bool) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.Material == "" {
		opts.Material, err = c.chooseMaterial(ctx, runner, opts.Library, opts.Refresh)
		if err != nil {
			return err
		}
	}
	if opts.Output == "" {
		opts.Output = c.defaultOutput(opts.Material, reportExt)
	}
	opts.Logger = c.Logger
	opts.Stdout = cmd.OutOrStdout()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Documented " + res.Material)

	if opts.Output == pipeline.StdoutPath {
		return nil
	}
	out := cmd.ErrOrStderr()
	printSuccess(out, "Documented %s", StyleValue.Render(res.Material))
	printFile(out, res.Output)
	printStats(out, res.Stats, res.CacheHit)
	return nil
}

// chooseMaterial asks the user to pick a material when a terminal is
// attached. Otherwise the missing material is a validation error.
func (c *CLI) chooseMaterial(ctx context.Context, runner *pipeline.Runner, library string, refresh bool) (string, error) {
	if !c.interactive() {
		return "", errors.New(errors.ErrCodeNoMaterialSelected, "no shader selected, pass --material")
	}
	lib, err := runner.LoadLibrary(ctx, library, refresh)
	if err != nil {
		return "", err
	}
	sums := pipeline.Summarize(lib)
	if len(sums) == 0 {
		return "", errors.New(errors.ErrCodeMaterialNotFound, "library %s has no materials", library)
	}
	return pickMaterial(sums, os.Stdin, os.Stdout)
}
