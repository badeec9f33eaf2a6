package transform

import (
	"strings"

	"github.com/matzehuels/dirgraph/pkg/graph"
)

// Abstract collapses every node located under one of dirs into a single
// directory placeholder node for that directory. Placeholders have
// IsDirectory set, so renderers can dim them.
//
// Relations are rewritten to point at placeholders; relations that become
// self-loops are dropped and duplicates are removed. The first matching
// entry of dirs wins when directories nest.
func Abstract(dirs []string, g graph.Graph) graph.Graph {
	if len(dirs) == 0 {
		return g.Clone()
	}

	prefixes := make([][]string, 0, len(dirs))
	for _, d := range dirs {
		d = strings.Trim(d, `/\`)
		if d == "" {
			continue
		}
		prefixes = append(prefixes, graph.SplitPath(d))
	}

	replace := func(n graph.Node) graph.Node {
		segs := graph.SplitPath(n.Path)
		for _, p := range prefixes {
			if len(segs) > len(p) && hasSegmentPrefix(segs, p) {
				dir := graph.JoinPath(p)
				return graph.Node{Path: dir, FileName: graph.BaseName(dir), IsDirectory: true}
			}
		}
		return n
	}

	nodes := make([]graph.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, replace(n))
	}

	relations := make([]graph.Relation, 0, len(g.Relations))
	for _, r := range g.Relations {
		from, to := replace(r.From), replace(r.To)
		if from.Path == to.Path {
			continue
		}
		relations = append(relations, graph.Relation{From: from, To: to, FullText: r.FullText})
	}

	return graph.Graph{
		Nodes:     graph.UniqueNodes(nodes),
		Relations: graph.UniqueRelations(relations),
	}
}

func hasSegmentPrefix(segs, prefix []string) bool {
	for i, p := range prefix {
		if segs[i] != p {
			return false
		}
	}
	return true
}
