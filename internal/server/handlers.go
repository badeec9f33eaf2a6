package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dirgraph/pkg/buildinfo"
	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatMermaid: "text/plain; charset=utf-8",
	pipeline.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatJSON:    "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"formats": pipeline.FormatNames(),
	})
}

// renderRequest is the body of POST /render.
type renderRequest struct {
	Graph   graph.Document   `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// renderResponse is the body returned by POST /render. Artifacts are
// returned as text; every supported format is textual.
type renderResponse struct {
	RequestID string            `json:"request_id"`
	GraphHash string            `json:"graph_hash"`
	Artifacts map[string]string `json:"artifacts"`
	Stats     statsBody         `json:"stats"`
	Cache     cacheBody         `json:"cache"`
}

type statsBody struct {
	InputNodes      int   `json:"input_nodes"`
	InputRelations  int   `json:"input_relations"`
	Nodes           int   `json:"nodes"`
	Relations       int   `json:"relations"`
	TransformMillis int64 `json:"transform_ms"`
	RenderMillis    int64 `json:"render_ms"`
}

type cacheBody struct {
	TransformHit bool `json:"transform_hit"`
	RenderHit    bool `json:"render_hit"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body"))
		return
	}

	g, err := graph.FromDocument(req.Graph)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph"))
		return
	}

	opts, err := pipeline.NewOptions(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := renderResponse{
		RequestID: requestIDFrom(r.Context()),
		GraphHash: result.GraphHash,
		Artifacts: make(map[string]string, len(result.Artifacts)),
		Stats: statsBody{
			InputNodes:      result.Stats.InputNodes,
			InputRelations:  result.Stats.InputRelations,
			Nodes:           result.Stats.Nodes,
			Relations:       result.Stats.Relations,
			TransformMillis: result.Stats.TransformTime.Milliseconds(),
			RenderMillis:    result.Stats.RenderTime.Milliseconds(),
		},
		Cache: cacheBody{
			TransformHit: result.CacheInfo.TransformHit,
			RenderHit:    result.CacheInfo.RenderHit,
		},
	}
	for format, data := range result.Artifacts {
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRenderFormat(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := s.readGraph(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	raw, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	raw.Formats = []string{format}
	opts, err := pipeline.NewOptions(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ct := contentTypes[format]
	if format == pipeline.FormatMermaid && opts.Markdown {
		ct = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("X-Graph-Hash", result.GraphHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	g, err := s.readGraph(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	raw, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := pipeline.NewOptions(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := s.runner.Transform(r.Context(), g, opts)

	format := graph.FormatJSON
	ct := "application/json"
	if wantsYAML(r.Header.Get("Accept")) {
		format = graph.FormatYAML
		ct = "application/yaml"
	}
	data, err := graph.Marshal(out, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// readGraph decodes the request body as a graph document. YAML is selected
// by the Content-Type header; anything else is decoded as JSON.
func (s *Server) readGraph(w http.ResponseWriter, r *http.Request) (graph.Graph, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	format := graph.FormatJSON
	if wantsYAML(r.Header.Get("Content-Type")) {
		format = graph.FormatYAML
	}
	return s.runner.Decode(r.Context(), "request "+requestIDFrom(r.Context()), data, format)
}

func wantsYAML(mediaType string) bool {
	return strings.Contains(strings.ToLower(mediaType), "yaml")
}

// optionsFromQuery reads pipeline options from query parameters. List
// options repeat the parameter (?include=src&include=lib).
func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		Direction: q.Get("direction"),
		RootDir:   q.Get("root_dir"),
		Include:   q["include"],
		Exclude:   q["exclude"],
		Abstract:  q["abstract"],
		Highlight: q["highlight"],
		Ignore:    q["ignore"],
	}

	for name, dst := range map[string]*bool{
		"dir_style":       &opts.DirStyle,
		"highlight_style": &opts.HighlightStyle,
		"links":           &opts.Links,
		"markdown":        &opts.Markdown,
		"refresh":         &opts.Refresh,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
		}
		*dst = b
	}
	return opts, nil
}
