// Package nodelink renders dependency graphs as Graphviz node-link diagrams.
//
// # Overview
//
// The flowchart output in [github.com/matzehuels/dirgraph/pkg/render/mermaid]
// needs a Mermaid viewer. This package produces the same directory-grouped
// picture as Graphviz DOT, which renders offline and can be turned into SVG
// in-process:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{RankDir: "LR"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Clusters
//
// Each directory group from [dirtree.Build] becomes a "cluster_N" subgraph
// labelled with its path relative to the enclosing group. Nodes are keyed by
// their full path, so no identifier sanitizing is needed: DOT quoted strings
// accept any path.
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz
// as WebAssembly. No system Graphviz installation is required.
package nodelink
