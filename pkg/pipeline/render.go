package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/render/mermaid"
	"github.com/matzehuels/dirgraph/pkg/render/nodelink"
)

// RenderFormat renders g in a single output format. g is expected to be the
// transformed graph.
func RenderFormat(ctx context.Context, g graph.Graph, opts Options, format string) ([]byte, error) {
	switch format {
	case FormatMermaid:
		text := mermaid.ToMermaid(g, opts.MermaidOptions())
		if opts.Markdown {
			text = mermaid.Markdown(text)
		}
		return []byte(text), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, nodelinkOptions(opts))), nil
	case FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelinkOptions(opts)))
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return svg, nil
	case FormatJSON:
		return graph.Marshal(g, graph.FormatJSON)
	}
	return nil, ValidateFormat(format)
}

func nodelinkOptions(opts Options) nodelink.Options {
	rankdir := "TB"
	if opts.Direction == string(mermaid.DirectionLR) {
		rankdir = "LR"
	}
	return nodelink.Options{RankDir: rankdir, DirStyle: opts.DirStyle, Highlight: opts.HighlightStyle}
}
