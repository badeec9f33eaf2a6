package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

// filterCommand creates the filter command, which writes the transformed
// graph back out as a graph document instead of rendering it.
func (c *CLI) filterCommand() *cobra.Command {
	var (
		f            transformFlags
		output       string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "filter [graph.json|graph.yaml|-]",
		Short: "Apply ignore, abstract, include/exclude and highlight, and write the resulting graph",
		Example: `  dirgraph filter graph.json --exclude test -o graph.filtered.json
  dirgraph filter graph.json --abstract node_modules --output-format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg, &f)

			format, err := documentFormat(output, outputFormat)
			if err != nil {
				return err
			}
			opts, err := f.options()
			if err != nil {
				return err
			}
			if opts, err = pipeline.NewOptions(opts); err != nil {
				return err
			}

			runner, err := c.newRunner(f.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := cmd.Context()
			g, err := f.loadGraph(ctx, runner, cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out := runner.Transform(ctx, g, opts)

			if output == "" {
				return graph.Write(out, cmd.OutOrStdout(), format)
			}
			data, err := graph.Marshal(out, format)
			if err != nil {
				return err
			}
			if err := writeArtifact(output, data); err != nil {
				return err
			}
			printSuccess("Filtered graph")
			printFile(output)
			printStats(out.NodeCount(), out.RelationCount(), false)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "document format: json (default), yaml; inferred from --output")

	return cmd
}

// documentFormat picks the graph document encoding: an explicit format
// wins, then the output file extension, then JSON.
func documentFormat(output, format string) (graph.Format, error) {
	switch format {
	case "":
		if output != "" {
			return graph.FormatFromPath(output), nil
		}
		return graph.FormatJSON, nil
	case string(graph.FormatJSON):
		return graph.FormatJSON, nil
	case string(graph.FormatYAML), "yml":
		return graph.FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid output format: %q (must be json or yaml)", format)
}
