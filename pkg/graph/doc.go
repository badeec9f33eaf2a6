// Package graph defines the file dependency graph and its wire format.
//
// A [Graph] is produced by an external source analyzer: one [Node] per source
// file and one [Relation] per detected import or reference. dirgraph never
// mutates a Graph; every transformation returns a new value.
//
// # Identity
//
// Nodes are identified by [Node.Path]. Relations are identified by the pair of
// endpoint paths, see [Relation.Key]. [Graph.Equal] compares graphs by these
// identities, in order.
//
// # Serialization
//
// Graphs are exchanged as JSON or YAML documents with the same keys:
//
//	{
//	  "nodes": [{"path": "src/app.ts", "name": "app.ts"}],
//	  "relations": [{"from": "src/app.ts", "to": "src/lib.ts", "fullText": "import lib from './lib'"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadFile("deps.json")       // File → Graph
//	graph.WriteFile(g, "deps.yaml")           // Graph → File (YAML by extension)
//	data, _ := graph.Marshal(g, graph.FormatJSON)
//	parsed, _ := graph.Unmarshal(data, graph.FormatJSON)
//
// # Paths
//
// Paths may use forward or backward slashes. [SplitPath] and [BaseName]
// treat both as separators; paths produced by this module use "/".
package graph
