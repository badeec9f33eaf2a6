package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Wire Format
// =============================================================================

// Document is the serialized form of a [Graph]. Relation endpoints are
// stored as paths and resolved against Nodes when decoded.
type Document struct {
	Nodes     []Node         `json:"nodes" yaml:"nodes"`
	Relations []RelationSpec `json:"relations" yaml:"relations"`
}

// RelationSpec is the serialized form of a [Relation].
type RelationSpec struct {
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
	FullText string `json:"fullText,omitempty" yaml:"fullText,omitempty"`
}

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension.
// Anything other than .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ToDocument converts g to its serialization form.
func ToDocument(g Graph) Document {
	doc := Document{
		Nodes:     make([]Node, len(g.Nodes)),
		Relations: make([]RelationSpec, len(g.Relations)),
	}
	copy(doc.Nodes, g.Nodes)
	for i, r := range g.Relations {
		doc.Relations[i] = RelationSpec{From: r.From.Path, To: r.To.Path, FullText: r.FullText}
	}
	return doc
}

// FromDocument converts a document to a Graph.
//
// Duplicate node paths keep the first occurrence. Missing file names are
// derived from the path. Relation endpoints not present in the node list
// resolve to a node built from the path alone; they are not added to Nodes.
func FromDocument(doc Document) (Graph, error) {
	g := Graph{
		Nodes:     make([]Node, 0, len(doc.Nodes)),
		Relations: make([]Relation, 0, len(doc.Relations)),
	}
	byPath := make(map[string]Node, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if _, dup := byPath[n.Path]; dup {
			continue
		}
		if n.FileName == "" {
			n.FileName = BaseName(n.Path)
		}
		byPath[n.Path] = n
		g.Nodes = append(g.Nodes, n)
	}

	resolve := func(path string) Node {
		if n, ok := byPath[path]; ok {
			return n
		}
		return NewNode(path)
	}
	for i, r := range doc.Relations {
		if r.From == "" || r.To == "" {
			return Graph{}, fmt.Errorf("relation %d: endpoints must not be empty", i)
		}
		g.Relations = append(g.Relations, Relation{
			From:     resolve(r.From),
			To:       resolve(r.To),
			FullText: r.FullText,
		})
	}
	return g, nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal encodes g in the given format.
func Marshal(g Graph, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes g to w in the given format.
func Write(g Graph, w io.Writer, format Format) error {
	doc := ToDocument(g)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// WriteFile writes g to path, choosing the encoding from the extension.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f, FormatFromPath(path))
}

// Read decodes a graph document from r.
func Read(r io.Reader, format Format) (Graph, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return Graph{}, fmt.Errorf("decode: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Graph{}, fmt.Errorf("decode: %w", err)
		}
	}
	return FromDocument(doc)
}

// Unmarshal decodes a graph document from data.
func Unmarshal(data []byte, format Format) (Graph, error) {
	return Read(bytes.NewReader(data), format)
}

// ReadFile reads the graph document at path, choosing the encoding from
// the extension.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
