package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/buildinfo"
	"github.com/matzehuels/dirgraph/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent pre-run attaches the logger to the command context and
// routes pipeline and cache hooks to debug logging. main.go wraps it to
// apply --verbose first.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "dirgraph draws file dependency graphs as directory-grouped Mermaid flowcharts",
		Long: `dirgraph reads a file dependency graph (JSON or YAML), filters it while keeping
connections across removed regions, groups files by directory and writes a
Mermaid flowchart.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			hooks := &logHooks{logger: c.Logger}
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+configFileName+" when present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.filterCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
