// Package pipeline provides the diagram pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: decode a graph document (JSON or YAML) into a [graph.Graph]
//  2. Transform: ignore, abstract, filter and highlight, in that order
//  3. Render: produce Mermaid, DOT, SVG or JSON output
//
// Each stage can be run independently or as part of the complete pipeline.
// Transform and render results are cached by content hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts, err := pipeline.NewOptions(pipeline.Options{
//	    Direction: "LR",
//	    Include:   []string{"src"},
//	    Formats:   []string{pipeline.FormatMermaid},
//	})
//	if err != nil {
//	    return err
//	}
//	g, err := runner.LoadFile(ctx, "graph.json")
//	result, err := runner.Execute(ctx, g, opts)
//	text := result.Artifacts[pipeline.FormatMermaid]
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/dirgraph/pkg/cache"
	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/render/mermaid"
)

// Format constants for output formats.
const (
	FormatMermaid = "mermaid"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
	FormatJSON    = "json"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatMermaid

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatMermaid: true,
	FormatDOT:     true,
	FormatSVG:     true,
	FormatJSON:    true,
}

// ValidDirections is the set of supported flowchart directions.
var ValidDirections = map[string]bool{
	string(mermaid.DirectionDefault): true,
	string(mermaid.DirectionLR):      true,
	string(mermaid.DirectionTB):      true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options is the complete configuration of one pipeline run. It supports
// JSON serialization for server requests.
//
// Build Options with [NewOptions]; the returned value is validated, has its
// defaults applied and owns its slices. The Runner never modifies it.
type Options struct {
	// Transform options
	Ignore    []string `json:"ignore,omitempty"`
	Abstract  []string `json:"abstract,omitempty"`
	Include   []string `json:"include,omitempty"`
	Exclude   []string `json:"exclude,omitempty"`
	Highlight []string `json:"highlight,omitempty"`

	// Render options
	Direction      string   `json:"direction,omitempty"`
	DirStyle       bool     `json:"dir_style,omitempty"`
	HighlightStyle bool     `json:"highlight_style,omitempty"`
	Links          bool     `json:"links,omitempty"`
	RootDir        string   `json:"root_dir,omitempty"`
	Markdown       bool     `json:"markdown,omitempty"`
	Formats        []string `json:"formats,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`
}

// NewOptions validates o and returns a defensive copy with defaults applied:
// the default format when none is given, the dir class when directories are
// abstracted, and the highlight class when patterns are highlighted.
func NewOptions(o Options) (Options, error) {
	o = o.clone()
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.Formats = uniqueStrings(o.Formats)
	if len(o.Abstract) > 0 {
		o.DirStyle = true
	}
	if len(o.Highlight) > 0 {
		o.HighlightStyle = true
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Validate reports the first unsupported option combination.
func (o Options) Validate() error {
	if !ValidDirections[o.Direction] {
		return errors.New(errors.ErrCodeInvalidDirection,
			"invalid direction: %q (must be one of: LR, TB or empty)", o.Direction)
	}
	if o.Links {
		if err := errors.ValidateRootDir(o.RootDir); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, p := range []struct {
		kind     string
		patterns []string
	}{
		{"include", o.Include},
		{"exclude", o.Exclude},
		{"abstract", o.Abstract},
		{"highlight", o.Highlight},
	} {
		if err := errors.ValidatePatterns(p.kind, p.patterns); err != nil {
			return err
		}
	}
	return nil
}

// DirectionFromFlags maps the mutually exclusive --LR and --TB flags to a
// direction.
func DirectionFromFlags(lr, tb bool) (string, error) {
	switch {
	case lr && tb:
		return "", errors.New(errors.ErrCodeInvalidDirection, "--LR and --TB are mutually exclusive")
	case lr:
		return string(mermaid.DirectionLR), nil
	case tb:
		return string(mermaid.DirectionTB), nil
	}
	return string(mermaid.DirectionDefault), nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// MermaidOptions returns the serializer options.
func (o Options) MermaidOptions() mermaid.Options {
	return mermaid.Options{
		Direction:      mermaid.Direction(o.Direction),
		DirStyle:       o.DirStyle,
		HighlightStyle: o.HighlightStyle,
		Links:          o.Links,
		RootDir:        o.RootDir,
	}
}

// TransformKeyOpts returns cache key options for the transform stage.
func (o Options) TransformKeyOpts() cache.TransformKeyOpts {
	return cache.TransformKeyOpts{
		Ignore:    o.Ignore,
		Abstract:  o.Abstract,
		Include:   o.Include,
		Exclude:   o.Exclude,
		Highlight: o.Highlight,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:         format,
		Direction:      o.Direction,
		DirStyle:       o.DirStyle,
		HighlightStyle: o.HighlightStyle,
		Links:          o.Links,
		RootDir:        o.RootDir,
		Markdown:       o.Markdown,
	}
}

func (o Options) clone() Options {
	o.Ignore = slices.Clone(o.Ignore)
	o.Abstract = slices.Clone(o.Abstract)
	o.Include = slices.Clone(o.Include)
	o.Exclude = slices.Clone(o.Exclude)
	o.Highlight = slices.Clone(o.Highlight)
	o.Formats = slices.Clone(o.Formats)
	return o
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the transformed graph that was rendered.
	Graph graph.Graph

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputNodes     int
	InputRelations int
	Nodes          int
	Relations      int
	TransformTime  time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TransformHit bool // Whether the transformed graph came from cache
	RenderHit    bool // Whether all artifacts came from cache
}
