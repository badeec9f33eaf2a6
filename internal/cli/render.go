package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

// formatExt maps output formats to file extensions.
var formatExt = map[string]string{
	pipeline.FormatMermaid: ".mmd",
	pipeline.FormatDOT:     ".dot",
	pipeline.FormatSVG:     ".svg",
	pipeline.FormatJSON:    ".json",
}

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	transformFlags

	lr, tb         bool
	direction      string // from the config file; --LR/--TB win
	dirStyle       bool
	highlightStyle bool
	links          bool
	rootDir        string
	markdown       bool
	formats        []string
	output         string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [graph.json|graph.yaml|-]",
		Short: "Render a dependency graph as a directory-grouped flowchart",
		Long: `Render a dependency graph as a Mermaid flowchart with one subgraph per directory.

The graph is read from the given file, or from stdin when no file (or "-") is
given. With a single format and no --output the result is written to stdout.`,
		Example: `  dirgraph render graph.json --LR --exclude test
  dirgraph render graph.json -o deps.md --markdown --highlight src/app
  dirgraph render graph.yaml -f mermaid,svg -o out/deps`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg, &f.transformFlags)
			applyRenderConfig(cmd, cfg, &f)

			opts, err := f.pipelineOptions()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd, args, &f, opts)
		},
	}

	f.transformFlags.register(cmd)
	cmd.Flags().BoolVar(&f.lr, "LR", false, "left-to-right flowchart")
	cmd.Flags().BoolVar(&f.tb, "TB", false, "top-to-bottom flowchart")
	cmd.Flags().BoolVar(&f.dirStyle, "dir", false, "dim abstracted directory nodes (implied by --abstract)")
	cmd.Flags().BoolVar(&f.highlightStyle, "highlight-style", false, "emit the highlight class (implied by --highlight)")
	cmd.Flags().BoolVar(&f.links, "links", false, "add a click link per file, opening it in the editor")
	cmd.Flags().StringVar(&f.rootDir, "root-dir", "", "project root that click links point into (required with --links)")
	cmd.Flags().BoolVarP(&f.markdown, "markdown", "m", false, "wrap the flowchart in a mermaid code fence")
	cmd.Flags().StringSliceVarP(&f.formats, "format", "f", nil, "output format(s): mermaid (default), dot, svg, json")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.MarkFlagsMutuallyExclusive("LR", "TB")

	return cmd
}

// pipelineOptions turns the flags into validated pipeline options.
func (f *renderFlags) pipelineOptions() (pipeline.Options, error) {
	opts, err := f.transformFlags.options()
	if err != nil {
		return opts, err
	}
	dir, err := pipeline.DirectionFromFlags(f.lr, f.tb)
	if err != nil {
		return opts, err
	}
	if dir == "" {
		dir = strings.ToUpper(f.direction)
	}

	opts.Direction = dir
	opts.DirStyle = f.dirStyle
	opts.HighlightStyle = f.highlightStyle
	opts.Links = f.links
	opts.RootDir = f.rootDir
	opts.Markdown = f.markdown
	opts.Formats = f.formats
	return pipeline.NewOptions(opts)
}

// runRender loads the graph, runs the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, args []string, f *renderFlags, opts pipeline.Options) error {
	runner, err := c.newRunner(f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	g, err := f.loadGraph(ctx, runner, cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spin := newRenderSpinner(statusOut)
	result, err := runner.Execute(withSpinner(ctx, spin), g, opts)
	spin.stop()
	if err != nil {
		printError("Render failed")
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.Formats)))

	if result.Graph.NodeCount() == 0 {
		printWarning("No files left after filtering")
	}

	input := ""
	if len(args) == 1 && args[0] != "-" {
		input = args[0]
	}

	if len(opts.Formats) == 1 && f.output == "" {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := outputPaths(f.output, input, opts)
	if err != nil {
		return err
	}
	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.Nodes, result.Stats.Relations, result.CacheInfo.TransformHit && result.CacheInfo.RenderHit)
	return nil
}

// outputPaths chooses a file per format. A single format writes to output
// as given. Multiple formats share a base path: output with any known
// extension stripped, or else the input path without its extension. A path
// that would overwrite the input gets a ".filtered" infix.
func outputPaths(output, input string, opts pipeline.Options) (map[string]string, error) {
	paths := make(map[string]string, len(opts.Formats))
	if len(opts.Formats) == 1 && output != "" {
		paths[opts.Formats[0]] = avoidInput(output, input)
		return paths, nil
	}

	base := basePath(output, input)
	if base == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--output is required when rendering several formats from stdin")
	}
	for _, format := range opts.Formats {
		paths[format] = avoidInput(base+extFor(format, opts), input)
	}
	return paths, nil
}

// avoidInput inserts ".filtered" before the extension of p when p names the
// input file.
func avoidInput(p, input string) string {
	if input == "" || filepath.Clean(p) != filepath.Clean(input) {
		return p
	}
	ext := filepath.Ext(p)
	return strings.TrimSuffix(p, ext) + ".filtered" + ext
}

func extFor(format string, opts pipeline.Options) string {
	if format == pipeline.FormatMermaid && opts.Markdown {
		return ".md"
	}
	return formatExt[format]
}

// basePath derives the base output path. An empty output falls back to the
// input with its extension stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if ext == ".md" {
		return strings.TrimSuffix(output, ext)
	}
	for _, known := range formatExt {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
