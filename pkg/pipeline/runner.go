package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dirgraph/pkg/cache"
	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/observability"
	"github.com/matzehuels/dirgraph/pkg/transform"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// =============================================================================
// Load
// =============================================================================

// LoadFile reads a graph document from path. The format follows the file
// extension (.yaml and .yml are YAML, anything else JSON).
func (r *Runner) LoadFile(ctx context.Context, path string) (graph.Graph, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, path)

	g, err := graph.ReadFile(path)
	switch {
	case err == nil:
	case stderrors.Is(err, fs.ErrNotExist):
		err = errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s not found", path)
	default:
		err = errors.Wrap(errors.ErrCodeInvalidGraph, err, "read graph %s", path)
	}
	observability.Pipeline().OnLoadComplete(ctx, path, g.NodeCount(), g.RelationCount(), time.Since(start), err)
	if err != nil {
		return graph.Graph{}, err
	}

	r.Logger.Info("loaded graph",
		"path", path,
		"nodes", g.NodeCount(),
		"relations", g.RelationCount(),
		"duration", time.Since(start))
	return g, nil
}

// Decode parses a graph document held in memory. source names the
// document in logs and hooks.
func (r *Runner) Decode(ctx context.Context, source string, data []byte, format graph.Format) (graph.Graph, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, source)

	g, err := graph.Unmarshal(data, format)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode %s", source)
	}
	observability.Pipeline().OnLoadComplete(ctx, source, g.NodeCount(), g.RelationCount(), time.Since(start), err)
	if err != nil {
		return graph.Graph{}, err
	}

	r.Logger.Debug("decoded graph", "source", source, "nodes", g.NodeCount(), "relations", g.RelationCount())
	return g, nil
}

// =============================================================================
// Execute
// =============================================================================

// Execute runs transform and render for g. opts must come from [NewOptions];
// they are validated again here because server requests may bypass it.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if len(opts.Formats) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format requested")
	}

	result := &Result{
		GraphHash: cache.GraphHash(g),
	}
	result.Stats.InputNodes = g.NodeCount()
	result.Stats.InputRelations = g.RelationCount()

	transformStart := time.Now()
	out, hit := r.transform(ctx, g, result.GraphHash, opts)
	result.Graph = out
	result.Stats.TransformTime = time.Since(transformStart)
	result.Stats.Nodes = out.NodeCount()
	result.Stats.Relations = out.RelationCount()
	result.CacheInfo.TransformHit = hit

	r.Logger.Info("transformed graph",
		"nodes", out.NodeCount(),
		"relations", out.RelationCount(),
		"cached", hit,
		"duration", result.Stats.TransformTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, out, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// =============================================================================
// Transform
// =============================================================================

// Transform applies ignore, abstract, filter and highlight to g, using the
// cache when possible.
func (r *Runner) Transform(ctx context.Context, g graph.Graph, opts Options) graph.Graph {
	out, _ := r.transform(ctx, g, cache.GraphHash(g), opts)
	return out
}

func (r *Runner) transform(ctx context.Context, g graph.Graph, hash string, opts Options) (graph.Graph, bool) {
	key := r.Keyer.TransformKey(hash, opts.TransformKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.Unmarshal(data, graph.FormatJSON); err == nil {
				observability.Cache().OnCacheHit(ctx, "transform")
				return cached, true
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "stage", "transform", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "transform")
	}

	out := Transform(ctx, r.Logger, g, opts)

	if data, err := graph.Marshal(out, graph.FormatJSON); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLTransform); err != nil {
			r.Logger.Warn("cache write failed", "stage", "transform", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "transform", len(data))
		}
	}
	return out, false
}

// stage is one graph transform. Disabled stages are skipped.
type stage struct {
	name    string
	enabled bool
	apply   func(graph.Graph) graph.Graph
}

// Transform applies the transform stages without caching. The order is
// fixed: ignore, abstract, filter, highlight. Highlighting runs last so it
// marks the placeholder and bridge endpoints that survive filtering.
func Transform(ctx context.Context, logger *log.Logger, g graph.Graph, opts Options) graph.Graph {
	stages := []stage{
		{"ignore", len(opts.Ignore) > 0, func(g graph.Graph) graph.Graph {
			return transform.Ignore(opts.Ignore, g)
		}},
		{"abstract", len(opts.Abstract) > 0, func(g graph.Graph) graph.Graph {
			return transform.Abstract(opts.Abstract, g)
		}},
		{"filter", len(opts.Include) > 0 || len(opts.Exclude) > 0, func(g graph.Graph) graph.Graph {
			return transform.Filter(opts.Include, opts.Exclude, g)
		}},
		{"highlight", len(opts.Highlight) > 0, func(g graph.Graph) graph.Graph {
			return transform.Highlight(opts.Highlight, g)
		}},
	}

	for _, s := range stages {
		if !s.enabled {
			continue
		}
		start := time.Now()
		observability.Pipeline().OnStageStart(ctx, s.name, g.NodeCount())
		before := g.NodeCount()
		g = s.apply(g)
		observability.Pipeline().OnStageComplete(ctx, s.name, g.NodeCount(), time.Since(start))
		if logger != nil {
			logger.Debug("applied "+s.name,
				"nodes_before", before,
				"nodes_after", g.NodeCount(),
				"relations", g.RelationCount())
		}
	}
	return g
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo renders every requested format and reports whether all
// of them came from the cache. Formats missing from the cache are rendered
// concurrently.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	hash := cache.GraphHash(g)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, missing)

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	for _, format := range missing {
		eg.Go(func() error {
			data, err := RenderFormat(egCtx, g, opts, format)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := eg.Wait()
	observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for _, format := range missing {
		data := artifacts[format]
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
