// Package render groups the diagram renderers.
//
// Both renderers draw the same directory forest built by [dirtree.Build]:
//
//   - [mermaid]: Mermaid flowchart text, one subgraph per directory group
//   - [nodelink]: Graphviz DOT, one cluster per directory group, and SVG
//
// [dirtree.Build]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/dirtree#Build
// [mermaid]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/render/mermaid
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/dirgraph/pkg/render/nodelink
package render
