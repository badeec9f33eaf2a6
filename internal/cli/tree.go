package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/dirtree"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

// topLevelLabel names the group of files that have no directory.
const topLevelLabel = "(top level)"

// treeCommand creates the tree command, which shows the directory groups a
// render would produce.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		f           transformFlags
		summary     bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "tree [graph.json|graph.yaml|-]",
		Short: "Show the directory groups of a dependency graph",
		Long: `Show the directory groups of a dependency graph after filtering, the same
grouping render uses for subgraphs. Pass-through directories are collapsed
and every node_modules path lands in one node_modules group.

With --interactive the groups open in a browser; selecting a file prints
its path to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg, &f)

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
			forest := dirtree.Build(runner.Transform(ctx, g, opts))

			if interactive {
				return browseTree(cmd.OutOrStdout(), forest)
			}

			out := cmd.OutOrStdout()
			if summary {
				fmt.Fprintln(out, summaryTable(forest))
				return nil
			}
			printTree(out, forest)
			dirs, files := dirtree.Count(forest)
			printDetail("%d groups, %d files", dirs, files)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "print a table of groups with file counts instead of the tree")
	cmd.Flags().BoolVarP(&interactive, "interactive", "I", false, "browse the groups interactively")
	cmd.MarkFlagsMutuallyExclusive("summary", "interactive")

	return cmd
}

// printTree writes the forest as an indented listing. Groups show the part
// of their directory below the enclosing group, files their display name.
func printTree(w io.Writer, forest []*dirtree.Tree) {
	dirtree.Walk(forest, func(t *dirtree.Tree, parent string, depth int) {
		indent := strings.Repeat("  ", depth)
		fileIndent := indent
		if !t.TopLevel {
			fmt.Fprintln(w, indent+StyleDir.Render(t.Label(parent)+"/"))
			fileIndent += "  "
		}
		for _, n := range t.Nodes {
			fmt.Fprintln(w, fileIndent+fileLabel(n))
		}
	})
}

// fileLabel styles a file line: highlighted files in the highlight color,
// abstracted directories dimmed.
func fileLabel(n graph.Node) string {
	switch {
	case n.Highlight:
		return StyleHighlight.Render(n.DisplayName() + " *")
	case n.IsDirectory:
		return StyleDim.Render(n.DisplayName() + "/…")
	}
	return StyleValue.Render(n.DisplayName())
}

// summaryTable renders one row per directory group with its file counts.
func summaryTable(forest []*dirtree.Tree) string {
	var rows [][]string
	dirtree.Walk(forest, func(t *dirtree.Tree, _ string, depth int) {
		name := t.Dir
		if t.TopLevel {
			name = topLevelLabel
		}
		highlighted := 0
		for _, n := range t.Nodes {
			if n.Highlight {
				highlighted++
			}
		}
		rows = append(rows, []string{name, strconv.Itoa(depth), strconv.Itoa(len(t.Nodes)), strconv.Itoa(highlighted)})
	})

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Group", "Depth", "Files", "Highlighted").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// browseTree runs the interactive browser and prints the selected file.
func browseTree(w io.Writer, forest []*dirtree.Tree) error {
	if len(forest) == 0 {
		printInfo("Graph is empty")
		return nil
	}
	p := tea.NewProgram(NewTreeBrowserModel(forest))
	final, err := p.Run()
	if err != nil {
		return err
	}
	m, ok := final.(TreeBrowserModel)
	if !ok || m.Selected == nil {
		printDetail("No selection made")
		return nil
	}
	fmt.Fprintln(w, m.Selected.Path)
	return nil
}
