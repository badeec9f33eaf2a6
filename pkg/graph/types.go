package graph

import "slices"

// =============================================================================
// Node - Source File Vertex
// =============================================================================

// Node is a source file (or an abstracted directory) in the dependency graph.
// Identity is the Path: two nodes with the same path are the same node.
type Node struct {
	Path        string `json:"path" yaml:"path"`
	FileName    string `json:"name,omitempty" yaml:"name,omitempty"`
	IsDirectory bool   `json:"isDirectory,omitempty" yaml:"isDirectory,omitempty"`
	Highlight   bool   `json:"highlight,omitempty" yaml:"highlight,omitempty"`
}

// Equal reports whether n and o identify the same file.
func (n Node) Equal(o Node) bool { return n.Path == o.Path }

// DisplayName returns the file name if set, otherwise the last path segment.
func (n Node) DisplayName() string {
	if n.FileName != "" {
		return n.FileName
	}
	return BaseName(n.Path)
}

// NewNode creates a file node whose file name is the last segment of path.
func NewNode(path string) Node {
	return Node{Path: path, FileName: BaseName(path)}
}

// =============================================================================
// Relation - Directed Reference
// =============================================================================

// Relation is a directed edge: From imports or references To.
// FullText holds the raw reference text and is only used for diagnostics.
type Relation struct {
	From     Node
	To       Node
	FullText string
}

// Key returns the identity of the relation, the (from, to) path pair.
func (r Relation) Key() RelationKey {
	return RelationKey{From: r.From.Path, To: r.To.Path}
}

// Equal reports whether r and o connect the same pair of paths.
func (r Relation) Equal(o Relation) bool { return r.Key() == o.Key() }

// RelationKey identifies a relation by its endpoint paths.
type RelationKey struct {
	From string
	To   string
}

// =============================================================================
// Graph - Node/Relation Collection
// =============================================================================

// Graph is the complete node and relation set produced by an analyzer.
// Nodes are unique by path; relations keep their original order.
//
// Graph values are treated as immutable: transformations return new graphs.
type Graph struct {
	Nodes     []Node
	Relations []Relation
}

// Clone returns a copy of g that shares no slices with it.
func (g Graph) Clone() Graph {
	return Graph{
		Nodes:     slices.Clone(g.Nodes),
		Relations: slices.Clone(g.Relations),
	}
}

// Equal reports whether g and o hold the same nodes (by path) and the same
// relations (by endpoint pair) in the same order.
func (g Graph) Equal(o Graph) bool {
	return slices.EqualFunc(g.Nodes, o.Nodes, Node.Equal) &&
		slices.EqualFunc(g.Relations, o.Relations, Relation.Equal)
}

// Node returns the node with the given path.
func (g Graph) Node(path string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Path == path {
			return n, true
		}
	}
	return Node{}, false
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// RelationCount returns the number of relations.
func (g Graph) RelationCount() int { return len(g.Relations) }

// UniqueNodes returns nodes with duplicate paths removed, keeping the first
// occurrence of each path.
func UniqueNodes(nodes []Node) []Node {
	seen := make(map[string]bool, len(nodes))
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n.Path] {
			continue
		}
		seen[n.Path] = true
		out = append(out, n)
	}
	return out
}

// UniqueRelations returns relations with duplicate endpoint pairs removed,
// keeping the first occurrence of each pair.
func UniqueRelations(rels []Relation) []Relation {
	seen := make(map[RelationKey]bool, len(rels))
	out := make([]Relation, 0, len(rels))
	for _, r := range rels {
		k := r.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}
