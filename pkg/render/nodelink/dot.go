package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dirgraph/pkg/dirtree"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// RankDir is the Graphviz rank direction, "TB" or "LR". Empty means TB.
	RankDir string

	// DirStyle draws abstracted directory nodes dashed and grey.
	DirStyle bool

	// Highlight fills highlighted nodes in yellow. It wins over DirStyle.
	Highlight bool
}

// ToDOT converts g to Graphviz DOT source. Files are grouped into one
// cluster per directory group built by [dirtree.Build], nested the same way
// the flowchart nests its subgraphs.
func ToDOT(g graph.Graph, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	clusters := 0
	for _, t := range dirtree.Build(g) {
		writeCluster(&buf, t, "", 1, &clusters, opts)
	}

	if len(g.Relations) > 0 {
		buf.WriteString("\n")
	}
	for _, r := range g.Relations {
		fmt.Fprintf(&buf, "  %q -> %q;\n", r.From.Path, r.To.Path)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeCluster(buf *bytes.Buffer, t *dirtree.Tree, parent string, depth int, n *int, opts Options) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString("\n")
	if t.TopLevel {
		for _, node := range t.Nodes {
			fmt.Fprintf(buf, "%s%q [%s];\n", indent, node.Path, strings.Join(fmtAttrs(node, opts), ", "))
		}
		return
	}

	fmt.Fprintf(buf, "%ssubgraph cluster_%d {\n", indent, *n)
	*n++
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, t.Label(parent))
	fmt.Fprintf(buf, "%s  style=\"rounded,dashed\";\n", indent)
	fmt.Fprintf(buf, "%s  color=grey50;\n", indent)
	for _, node := range t.Nodes {
		fmt.Fprintf(buf, "%s  %q [%s];\n", indent, node.Path, strings.Join(fmtAttrs(node, opts), ", "))
	}
	for _, c := range t.Children {
		writeCluster(buf, c, t.Dir, depth+1, n, opts)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func fmtAttrs(n graph.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.DisplayName())}
	switch {
	case n.Highlight && opts.Highlight:
		attrs = append(attrs, "fillcolor=yellow", "fontcolor=black")
	case n.IsDirectory && opts.DirStyle:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches it, so the SVG scales
// cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
