package transform

import (
	"os"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/matzehuels/dirgraph/pkg/graph"
)

// Ignore removes nodes matching gitignore-style patterns, along with every
// relation touching a removed node.
func Ignore(lines []string, g graph.Graph) graph.Graph {
	if len(lines) == 0 {
		return g.Clone()
	}
	matcher := ignore.CompileIgnoreLines(lines...)
	ignored := func(n graph.Node) bool {
		return matcher.MatchesPath(strings.ReplaceAll(n.Path, `\`, "/"))
	}

	return graph.Graph{
		Nodes: keepNodes(g.Nodes, func(n graph.Node) bool { return !ignored(n) }),
		Relations: keepRelations(g.Relations, func(r graph.Relation) bool {
			return !ignored(r.From) && !ignored(r.To)
		}),
	}
}

// ReadIgnoreFile reads gitignore-style patterns from path. Blank lines and
// comments are dropped.
func ReadIgnoreFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
