package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/dirgraph/pkg/cache"
	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func testGraph() graph.Graph {
	a := graph.NewNode("src/a.ts")
	b := graph.NewNode("src/b.ts")
	c := graph.NewNode("lib/c.ts")
	return graph.Graph{
		Nodes: []graph.Node{a, b, c},
		Relations: []graph.Relation{
			{From: a, To: b},
			{From: b, To: c},
		},
	}
}

func mustOptions(t *testing.T, o Options) Options {
	t.Helper()
	opts, err := NewOptions(o)
	if err != nil {
		t.Fatalf("NewOptions() error = %v", err)
	}
	return opts
}

func TestExecuteMermaid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := mustOptions(t, Options{Direction: "LR"})

	result, err := r.Execute(context.Background(), testGraph(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	text := string(result.Artifacts[FormatMermaid])
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if lines[0] != "flowchart LR" {
		t.Errorf("first line = %q", lines[0])
	}
	if got := strings.Count(text, "-->"); got != 2 {
		t.Errorf("arrow count = %d, want 2", got)
	}
	if result.Stats.InputNodes != 3 || result.Stats.Nodes != 3 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
}

func TestExecuteBridgeFixture(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := mustOptions(t, Options{Exclude: []string{"b"}, Formats: []string{FormatJSON}})

	a, b, c := graph.NewNode("a"), graph.NewNode("b"), graph.NewNode("c")
	g := graph.Graph{
		Nodes:     []graph.Node{a, b, c},
		Relations: []graph.Relation{{From: a, To: b}, {From: b, To: c}},
	}

	result, err := r.Execute(context.Background(), g, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Graph.Nodes) != 2 || result.Graph.Nodes[0].Path != "a" || result.Graph.Nodes[1].Path != "c" {
		t.Errorf("nodes = %+v, want [a c]", result.Graph.Nodes)
	}
	if len(result.Graph.Relations) != 0 {
		t.Errorf("relations = %+v, want none", result.Graph.Relations)
	}

	decoded, err := graph.Unmarshal(result.Artifacts[FormatJSON], graph.FormatJSON)
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !decoded.Equal(result.Graph) {
		t.Error("json artifact should encode the transformed graph")
	}
}

func TestExecuteMarkdownAndDOT(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := mustOptions(t, Options{Markdown: true, Formats: []string{FormatMermaid, FormatDOT}})

	result, err := r.Execute(context.Background(), testGraph(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if md := string(result.Artifacts[FormatMermaid]); !strings.HasPrefix(md, "```mermaid\nflowchart\n") {
		t.Errorf("markdown artifact = %q", md)
	}
	if dot := string(result.Artifacts[FormatDOT]); !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("dot artifact = %q", dot)
	}
}

func TestExecuteDOTFollowsDirStyle(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	g := testGraph()
	g.Nodes = append(g.Nodes, graph.Node{Path: "vendor/pkg", FileName: "pkg", IsDirectory: true})

	plain := mustOptions(t, Options{Formats: []string{FormatDOT}})
	result, err := r.Execute(context.Background(), g, plain)
	if err != nil {
		t.Fatal(err)
	}
	if dot := string(result.Artifacts[FormatDOT]); strings.Contains(dot, "fillcolor=lightgrey") {
		t.Errorf("directory nodes should be plain without the dir style:\n%s", dot)
	}

	abstracted := mustOptions(t, Options{Abstract: []string{"src"}, Formats: []string{FormatDOT}})
	result, err = r.Execute(context.Background(), g, abstracted)
	if err != nil {
		t.Fatal(err)
	}
	if dot := string(result.Artifacts[FormatDOT]); !strings.Contains(dot, "fillcolor=lightgrey") {
		t.Errorf("abstracting should style directory nodes:\n%s", dot)
	}
}

func TestExecuteHighlight(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := mustOptions(t, Options{Highlight: []string{"lib"}})

	result, err := r.Execute(context.Background(), testGraph(), opts)
	if err != nil {
		t.Fatal(err)
	}
	text := string(result.Artifacts[FormatMermaid])
	if !strings.Contains(text, "classDef highlight") || !strings.Contains(text, `lib/c.ts["c.ts"]:::highlight`) {
		t.Errorf("highlight missing:\n%s", text)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), testGraph(), Options{Direction: "sideways", Formats: []string{FormatMermaid}})
	if !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("Execute() error = %v, want INVALID_DIRECTION", err)
	}

	_, err = r.Execute(context.Background(), testGraph(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Execute() error = %v, want INVALID_FORMAT", err)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	opts := mustOptions(t, Options{Include: []string{"src"}, Formats: []string{FormatMermaid, FormatDOT}})
	ctx := context.Background()

	first, err := r.Execute(ctx, testGraph(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.TransformHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if mc.sets != 3 {
		t.Errorf("cache writes = %d, want 3 (transform + 2 artifacts)", mc.sets)
	}

	second, err := r.Execute(ctx, testGraph(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.TransformHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit the cache: %+v", second.CacheInfo)
	}
	if string(second.Artifacts[FormatMermaid]) != string(first.Artifacts[FormatMermaid]) {
		t.Error("cached artifact differs from rendered one")
	}

	refresh := opts
	refresh.Refresh = true
	third, err := r.Execute(ctx, testGraph(), refresh)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.TransformHit || third.CacheInfo.RenderHit {
		t.Error("refresh should bypass cache reads")
	}
}

func TestExecuteFileCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()
	opts := mustOptions(t, Options{})
	ctx := context.Background()

	if _, err := r.Execute(ctx, testGraph(), opts); err != nil {
		t.Fatal(err)
	}
	result, err := r.Execute(ctx, testGraph(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !result.CacheInfo.RenderHit {
		t.Error("file cache should serve the second run")
	}
}

func TestTransformOrder(t *testing.T) {
	g := graph.Graph{Nodes: []graph.Node{
		graph.NewNode("src/ui/button.tsx"),
		graph.NewNode("src/ui/button.test.tsx"),
		graph.NewNode("src/app.ts"),
	}}
	g.Relations = []graph.Relation{
		{From: g.Nodes[2], To: g.Nodes[0]},
		{From: g.Nodes[1], To: g.Nodes[0]},
	}

	opts := mustOptions(t, Options{
		Ignore:    []string{"*.test.tsx"},
		Abstract:  []string{"src/ui"},
		Highlight: []string{"src/ui"},
	})
	out := Transform(context.Background(), nil, g, opts)

	ui, ok := out.Node("src/ui")
	if !ok {
		t.Fatalf("abstracted node missing: %+v", out.Nodes)
	}
	if !ui.IsDirectory || !ui.Highlight {
		t.Errorf("src/ui = %+v, want directory and highlight", ui)
	}
	if _, ok := out.Node("src/ui/button.test.tsx"); ok {
		t.Error("ignored file should be gone")
	}
	if len(out.Relations) != 1 || out.Relations[0].To.Path != "src/ui" {
		t.Errorf("relations = %+v", out.Relations)
	}
}

func TestLoadFile(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	dir := t.TempDir()

	path := filepath.Join(dir, "graph.yaml")
	if err := graph.WriteFile(testGraph(), path); err != nil {
		t.Fatal(err)
	}
	g, err := r.LoadFile(ctx, path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !g.Equal(testGraph()) {
		t.Errorf("LoadFile() = %+v", g)
	}

	_, err = r.LoadFile(ctx, filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{nodes:"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = r.LoadFile(ctx, bad)
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("bad file error = %v, want INVALID_GRAPH", err)
	}
}

func TestDecode(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	g, err := r.Decode(context.Background(), "request", []byte(`{"nodes":[{"path":"a/b.ts"}],"relations":[]}`), graph.FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if g.NodeCount() != 1 || g.Nodes[0].FileName != "b.ts" {
		t.Errorf("Decode() = %+v", g)
	}

	_, err = r.Decode(context.Background(), "request", []byte(`not json`), graph.FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("Decode() error = %v, want INVALID_GRAPH", err)
	}
}
