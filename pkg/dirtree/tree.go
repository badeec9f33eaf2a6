package dirtree

import (
	"strings"

	"github.com/matzehuels/dirgraph/pkg/graph"
)

// NodeModules is the directory bucket shared by every third-party file.
const NodeModules = "node_modules"

// Tree is one directory group: the files directly owned by Dir and the
// nested directory groups below it.
//
// Dir is the full directory path. A tree with TopLevel set holds files that
// have no directory at all; its Dir is empty and it has no children.
type Tree struct {
	Dir      string
	Nodes    []graph.Node
	Children []*Tree
	TopLevel bool
}

// Label returns the display label of t when rendered inside a group for
// parent: the part of Dir below parent. Roots (empty parent) use Dir.
func (t *Tree) Label(parent string) string {
	if parent == "" {
		return t.Dir
	}
	return strings.TrimPrefix(strings.TrimPrefix(t.Dir, parent), graph.Separator)
}

// DirectoryOf returns the directory that owns the file at path.
//
// Any path with a node_modules segment belongs to the single [NodeModules]
// bucket regardless of depth. Otherwise the directory is every segment but
// the last. The second result is false for single-segment paths.
func DirectoryOf(path string) (string, bool) {
	segs := graph.SplitPath(path)
	for _, s := range segs {
		if s == NodeModules {
			return NodeModules, true
		}
	}
	if len(segs) < 2 {
		return "", false
	}
	return graph.JoinPath(segs[:len(segs)-1]), true
}

// entry is the flat, index-based record for one directory before collapsing.
type entry struct {
	nodes    []graph.Node
	children []string
}

// Build reconstructs the directory forest for the nodes of g.
//
// Every directory referenced by a node is created along with all of its
// ancestors. Each node is owned by the directory equal to [DirectoryOf] its
// path. Directories without files and with at most one child are collapsed
// into that child (or dropped), so pass-through levels never become groups.
//
// Roots are the collapsed top-level directories in first-encountered order.
// Files without a directory are returned first, in a TopLevel tree.
func Build(g graph.Graph) []*Tree {
	entries := make(map[string]*entry)
	var roots []string
	var topLevel []graph.Node

	ensure := func(dir string) *entry {
		if e, ok := entries[dir]; ok {
			return e
		}
		segs := graph.SplitPath(dir)
		for i := 1; i <= len(segs); i++ {
			d := graph.JoinPath(segs[:i])
			if _, ok := entries[d]; ok {
				continue
			}
			entries[d] = &entry{}
			if i == 1 {
				roots = append(roots, d)
			} else {
				p := entries[graph.JoinPath(segs[:i-1])]
				p.children = append(p.children, d)
			}
		}
		return entries[dir]
	}

	for _, n := range g.Nodes {
		dir, ok := DirectoryOf(n.Path)
		if !ok {
			topLevel = append(topLevel, n)
			continue
		}
		e := ensure(dir)
		e.nodes = append(e.nodes, n)
	}

	var forest []*Tree
	if len(topLevel) > 0 {
		forest = append(forest, &Tree{Nodes: topLevel, TopLevel: true})
	}
	for _, dir := range roots {
		if t := collapse(dir, entries); t != nil {
			forest = append(forest, t)
		}
	}
	return forest
}

// collapse builds the tree rooted at dir, eliding directories that own no
// files and have at most one child.
func collapse(dir string, entries map[string]*entry) *Tree {
	e := entries[dir]
	t := &Tree{Dir: dir, Nodes: e.nodes}
	for _, c := range e.children {
		if ct := collapse(c, entries); ct != nil {
			t.Children = append(t.Children, ct)
		}
	}
	if len(t.Nodes) == 0 {
		switch len(t.Children) {
		case 0:
			return nil
		case 1:
			return t.Children[0]
		}
	}
	return t
}

// Walk visits every tree in the forest depth-first in pre-order. parent is
// the Dir of the enclosing group, empty for roots.
func Walk(forest []*Tree, fn func(t *Tree, parent string, depth int)) {
	var visit func(t *Tree, parent string, depth int)
	visit = func(t *Tree, parent string, depth int) {
		fn(t, parent, depth)
		for _, c := range t.Children {
			visit(c, t.Dir, depth+1)
		}
	}
	for _, t := range forest {
		visit(t, "", 0)
	}
}

// Count returns the number of directory groups and files in the forest.
func Count(forest []*Tree) (dirs, files int) {
	Walk(forest, func(t *Tree, _ string, _ int) {
		if !t.TopLevel {
			dirs++
		}
		files += len(t.Nodes)
	})
	return dirs, files
}
