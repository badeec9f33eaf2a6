package mermaid

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/matzehuels/dirgraph/pkg/dirtree"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

// Direction selects the flowchart orientation.
type Direction string

const (
	DirectionDefault Direction = ""
	DirectionLR      Direction = "LR"
	DirectionTB      Direction = "TB"
)

// Class definitions emitted when the corresponding style option is enabled.
const (
	ClassDefDir       = "classDef dir fill:#0000,stroke:#999"
	ClassDefHighlight = "classDef highlight fill:yellow,color:black"
)

// LinkScheme prefixes the file path in click directives.
const LinkScheme = "vscode://file/"

const indentUnit = "  "

// Options configures flowchart output.
type Options struct {
	// Direction is the flowchart orientation. Empty leaves it to the viewer.
	Direction Direction

	// DirStyle emits the "dir" class used to dim directory placeholder nodes.
	DirStyle bool

	// HighlightStyle emits the "highlight" class used by highlighted nodes.
	HighlightStyle bool

	// Links emits a click directive per file, opening RootDir joined with
	// the file path.
	Links   bool
	RootDir string
}

// Render writes the flowchart for g line by line to write.
//
// Output order is fixed: the header, class definitions, one subgraph per
// directory group in depth-first pre-order, one arrow per relation in the
// order of g.Relations, and finally the click directives when Links is set.
// Lines carry no trailing newline.
func Render(write func(line string), g graph.Graph, opts Options) {
	forest := dirtree.Build(g)

	write(header(opts.Direction))
	if opts.DirStyle {
		write(indentUnit + ClassDefDir)
	}
	if opts.HighlightStyle {
		write(indentUnit + ClassDefHighlight)
	}

	for _, t := range forest {
		writeTree(write, t, "", 0)
	}

	for _, r := range g.Relations {
		write(fmt.Sprintf("%s%s-->%s", indentUnit, ID(r.From.Path), ID(r.To.Path)))
	}

	if opts.Links {
		dirtree.Walk(forest, func(t *dirtree.Tree, _ string, _ int) {
			for _, n := range t.Nodes {
				write(fmt.Sprintf(`%sclick %s href "%s" _blank`,
					indentUnit, ID(n.Path), Label(LinkScheme+joinRoot(opts.RootDir, n.Path))))
			}
		})
	}
}

func header(d Direction) string {
	if d == DirectionDefault {
		return "flowchart"
	}
	return "flowchart " + string(d)
}

// writeTree emits one directory group and its descendants. Groups at depth
// d open at d+1 indent units; their files sit one unit deeper.
func writeTree(write func(string), t *dirtree.Tree, parent string, depth int) {
	indent := strings.Repeat(indentUnit, depth+1)
	if t.TopLevel {
		for _, n := range t.Nodes {
			write(indent + nodeLine(n))
		}
		return
	}

	write(fmt.Sprintf(`%ssubgraph %s["%s"]`, indent, ID(t.Dir), Label(t.Label(parent))))
	for _, n := range t.Nodes {
		write(indent + indentUnit + nodeLine(n))
	}
	for _, c := range t.Children {
		writeTree(write, c, t.Dir, depth+1)
	}
	write(indent + "end")
}

func nodeLine(n graph.Node) string {
	line := fmt.Sprintf(`%s["%s"]`, ID(n.Path), Label(n.DisplayName()))
	switch {
	case n.Highlight:
		line += ":::highlight"
	case n.IsDirectory:
		line += ":::dir"
	}
	return line
}

func joinRoot(root, p string) string {
	root = strings.ReplaceAll(root, `\`, "/")
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.TrimPrefix(path.Join(root, p), "/")
}

// Write renders g to w, one newline-terminated line per flowchart line.
// It returns the first write error; later lines are skipped once a write
// has failed.
func Write(w io.Writer, g graph.Graph, opts Options) error {
	bw := bufio.NewWriter(w)
	var err error
	Render(func(line string) {
		if err != nil {
			return
		}
		if _, err = bw.WriteString(line); err == nil {
			err = bw.WriteByte('\n')
		}
	}, g, opts)
	if err != nil {
		return err
	}
	return bw.Flush()
}

// ToMermaid returns the flowchart for g as a string.
func ToMermaid(g graph.Graph, opts Options) string {
	var b strings.Builder
	Render(func(line string) {
		b.WriteString(line)
		b.WriteByte('\n')
	}, g, opts)
	return b.String()
}

// Markdown wraps flowchart text in a fenced mermaid code block.
func Markdown(text string) string {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return "```mermaid\n" + text + "```\n"
}
