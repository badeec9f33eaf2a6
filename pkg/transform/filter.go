package transform

import (
	"strings"

	"github.com/matzehuels/dirgraph/pkg/graph"
)

// Filter returns the subgraph of g selected by include and exclude
// substrings. Matching is case-insensitive substring containment on node
// paths; a relation matches when either endpoint matches.
//
// With empty include, everything starts out kept; otherwise only matching
// nodes and relations are kept. Exclude then removes matching nodes and
// relations. Original relations dropped along the way are re-admitted when
// both their endpoints are still referenced by a kept relation, so an edge
// between two surviving boundary nodes stays visible.
//
// The resulting node set lists the kept nodes first, followed by every
// relation endpoint not already present. With empty include and exclude,
// Filter returns a copy of g.
func Filter(include, exclude []string, g graph.Graph) graph.Graph {
	if len(include) == 0 && len(exclude) == 0 {
		return g.Clone()
	}

	include = lowerAll(include)
	exclude = lowerAll(exclude)

	nodes := g.Nodes
	relations := g.Relations

	if len(include) > 0 {
		nodes = keepNodes(nodes, func(n graph.Node) bool { return matchesAny(n.Path, include) })
		relations = keepRelations(relations, func(r graph.Relation) bool { return relationMatches(r, include) })
	}
	if len(exclude) > 0 {
		nodes = keepNodes(nodes, func(n graph.Node) bool { return !matchesAny(n.Path, exclude) })
		relations = keepRelations(relations, func(r graph.Relation) bool { return !relationMatches(r, exclude) })
	}

	relations = append(relations, bridgeRelations(g.Relations, relations)...)
	relations = graph.UniqueRelations(relations)

	all := make([]graph.Node, 0, len(nodes)+2*len(relations))
	all = append(all, nodes...)
	for _, r := range relations {
		all = append(all, r.From, r.To)
	}

	return graph.Graph{
		Nodes:     graph.UniqueNodes(all),
		Relations: relations,
	}
}

// bridgeRelations returns the original relations that are not in kept but
// whose endpoints are both referenced by some relation in kept.
func bridgeRelations(original, kept []graph.Relation) []graph.Relation {
	referenced := make(map[string]bool, 2*len(kept))
	retained := make(map[graph.RelationKey]bool, len(kept))
	for _, r := range kept {
		referenced[r.From.Path] = true
		referenced[r.To.Path] = true
		retained[r.Key()] = true
	}

	var bridges []graph.Relation
	for _, r := range original {
		if retained[r.Key()] {
			continue
		}
		if referenced[r.From.Path] && referenced[r.To.Path] {
			bridges = append(bridges, r)
		}
	}
	return bridges
}

func relationMatches(r graph.Relation, patterns []string) bool {
	return matchesAny(r.From.Path, patterns) || matchesAny(r.To.Path, patterns)
}

// matchesAny reports whether path contains one of the lower-cased patterns,
// ignoring case.
func matchesAny(path string, patterns []string) bool {
	lower := strings.ToLower(path)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func lowerAll(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = strings.ToLower(p)
	}
	return out
}

func keepNodes(nodes []graph.Node, keep func(graph.Node) bool) []graph.Node {
	out := make([]graph.Node, 0, len(nodes))
	for _, n := range nodes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

func keepRelations(rels []graph.Relation, keep func(graph.Relation) bool) []graph.Relation {
	out := make([]graph.Relation, 0, len(rels))
	for _, r := range rels {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
