// Package dirtree reconstructs a directory hierarchy from the flat set of
// file paths in a graph.
//
// [Build] groups nodes by the directory that directly owns them and nests
// the groups by path. Intermediate directories that own no files and have at
// most one subdirectory are collapsed, so a repository laid out as
// src/main/java/com/acme/... renders as one group rather than five wrappers.
//
// Third-party files are special-cased: any path containing a node_modules
// segment belongs to the single node_modules group, however deep the
// package is nested.
//
// Trees are built per render and hold no references back into the graph
// beyond the node values they own.
package dirtree
