package transform

import "github.com/matzehuels/dirgraph/pkg/graph"

// Highlight marks every node whose path contains one of patterns
// (case-insensitive) as highlighted. Relation endpoints are marked too so
// they stay consistent with the node set.
func Highlight(patterns []string, g graph.Graph) graph.Graph {
	out := g.Clone()
	if len(patterns) == 0 {
		return out
	}
	patterns = lowerAll(patterns)

	mark := func(n graph.Node) graph.Node {
		if matchesAny(n.Path, patterns) {
			n.Highlight = true
		}
		return n
	}
	for i, n := range out.Nodes {
		out.Nodes[i] = mark(n)
	}
	for i, r := range out.Relations {
		out.Relations[i].From = mark(r.From)
		out.Relations[i].To = mark(r.To)
	}
	return out
}
