// Package transform provides pure graph-to-graph transformations applied
// before rendering.
//
// Every function takes a [graph.Graph] and returns a new one; inputs are
// never modified, so transformations can run concurrently on shared graphs.
//
// # Transformations
//
//   - [Filter]: include/exclude by path substring, keeping bridge relations
//     between surviving nodes
//   - [Abstract]: collapse whole directories into placeholder nodes
//   - [Highlight]: mark nodes by path substring
//   - [Ignore]: drop nodes matching gitignore-style patterns
//
// The pipeline applies them in the order Ignore, Abstract, Filter, Highlight.
//
// # Bridge Relations
//
// [Filter] re-admits relations removed by the include/exclude pass when both
// endpoints are still referenced by a kept relation. This is a connectivity
// heuristic: it keeps edges between boundary nodes visible without trying to
// compute a proper graph cut. Changing it changes rendered diagrams.
package transform
