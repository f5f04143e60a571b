package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/pipeline"
)

// graphCommand creates the graph command that draws a material's node tree.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		noCache bool
		output  string
	)
	opts := pipeline.Options{Format: pipeline.DefaultGraphFormat}

	cmd := &cobra.Command{
		Use:   "graph [library]",
		Short: "Render a material's node tree as a DOT or SVG diagram",
		Long: `Render a material's node tree as a node-link diagram.

Nodes are labelled with their name and type; edges with the sockets they
connect. --expand draws the contents of node groups as nested clusters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateGraphFormat(opts.Format); err != nil {
				return err
			}
			opts.Library = args[0]
			return c.runGraph(cmd, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.Material, "material", "m", "", "material to draw")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file ("-" for stdout, default: <material>.<format>)`)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include operation, blend type and image in labels")
	cmd.Flags().BoolVar(&opts.ExpandGroups, "expand", false, "draw node group contents as clusters")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached diagrams and downloads")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, opts pipeline.Options, output string, noCache bool) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	lib, err := runner.LoadLibrary(ctx, opts.Library, opts.Refresh)
	if err != nil {
		return err
	}
	if opts.Material == "" {
		opts.Material, err = c.chooseMaterial(ctx, runner, opts.Library, false)
		if err != nil {
			return err
		}
	}
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.Material))
	spinner.Start()
	res, err := runner.Graph(ctx, lib, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		output = c.defaultOutput(res.Material, "."+res.Format)
	}
	if output == "" {
		output = safeFileName(res.Material) + "." + res.Format
	}
	if output == pipeline.StdoutPath {
		_, err := cmd.OutOrStdout().Write(res.Data)
		return err
	}
	if err := writeFile(output, res.Data); err != nil {
		return err
	}

	out := cmd.ErrOrStderr()
	printSuccess(out, "Rendered %s", StyleValue.Render(res.Material))
	printFile(out, output)
	if res.CacheHit {
		printDetail(out, iconCached)
	}
	return nil
}

// writeFile writes data to path, creating missing parent directories.
func writeFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeOutputDirectoryUnwritable, err, "could not create directory %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "write %s", path)
	}
	return nil
}
