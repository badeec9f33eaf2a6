// Package pkg provides the libraries behind dirgraph, which turns file
// dependency graphs into directory-grouped Mermaid flowcharts.
//
// # Overview
//
// A graph document lists source files and the imports between them. dirgraph
// narrows it down, groups the files by directory and writes a flowchart with
// one subgraph per directory.
//
// # Architecture
//
// The data flow through dirgraph:
//
//	graph document (JSON/YAML)
//	         ↓
//	    [graph] package (decode, identity rules)
//	         ↓
//	    [transform] package (ignore, abstract, filter with bridge edges, highlight)
//	         ↓
//	    [dirtree] package (collapsed directory forest)
//	         ↓
//	    [render/mermaid] / [render/nodelink] (flowchart text, DOT, SVG)
//
// [pipeline] runs these stages with caching ([cache]) and is shared by the
// CLI and the HTTP server.
//
// # Main Packages
//
// [graph] - Node, Relation and Graph types plus the JSON and YAML document
// format.
//
// [transform] - Graph Filter and the supplementary transforms. Every
// transform returns a new graph.
//
// [dirtree] - Directory Tree Builder. Pass-through directories are
// collapsed; node_modules paths share one bucket.
//
// [render/mermaid] - Identifier Sanitizer and flowchart Serializer.
//
// [render/nodelink] - Graphviz DOT with one cluster per directory, SVG via
// go-graphviz.
//
// [pipeline] - Options, validation and the cached Runner.
//
// [cache] - File, null and redis caches keyed by content hash.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// # Quick Start
//
//	g, _ := graph.ReadFile("graph.json")
//	g = transform.Filter(nil, []string{"test"}, g)
//	mermaid.Write(os.Stdout, g, mermaid.Options{Direction: mermaid.DirectionLR})
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test -short ./pkg/...    # Skip SVG rendering and retry waits
//	go test -run Example ./...  # Examples only
//
// Redis tests run when DIRGRAPH_TEST_REDIS holds a redis URL.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/graph
// [transform]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/transform
// [dirtree]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/dirtree
// [render/mermaid]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/render/mermaid
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/observability
package pkg
