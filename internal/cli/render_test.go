package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

func TestRenderStdout(t *testing.T) {
	out, _, err := runCLI(t, "", "render", writeSample(t), "--LR", "--exclude", "test")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	want := `flowchart LR
  subgraph src["src"]
    src/app.ts["app.ts"]
    subgraph src/lib["lib"]
      src/lib/util.ts["util.ts"]
      src/lib/log.ts["log.ts"]
    end
  end
  src/app.ts-->src/lib/util.ts
  src/lib/util.ts-->src/lib/log.ts
`
	if out != want {
		t.Errorf("render output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRenderStdin(t *testing.T) {
	yaml := "nodes:\n  - path: a\n  - path: b\nrelations:\n  - from: a\n    to: b\n"
	out, _, err := runCLI(t, yaml, "render", "-", "--TB", "--input-format", "yaml")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	want := "flowchart TB\n  a[\"a\"]\n  b[\"b\"]\n  a-->b\n"
	if out != want {
		t.Errorf("render output = %q, want %q", out, want)
	}
}

func TestRenderMarkdownHighlight(t *testing.T) {
	out, _, err := runCLI(t, "", "render", writeSample(t), "--markdown", "--highlight", "util")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, want := range []string{
		"```mermaid\nflowchart\n",
		"  classDef highlight fill:yellow,color:black\n",
		`src/lib/util.ts["util.ts"]:::highlight`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "```\n") {
		t.Errorf("output should end with a closing fence:\n%s", out)
	}
}

func TestRenderMultipleFormats(t *testing.T) {
	input := writeSample(t)
	base := filepath.Join(t.TempDir(), "out", "deps")
	_, status, err := runCLI(t, "", "render", input, "-f", "mermaid,json", "-o", base+".mmd")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, ext := range []string{".mmd", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("expected %s to be written: %v", base+ext, err)
		}
	}
	if !strings.Contains(status, "Rendered mermaid, json") {
		t.Errorf("status output = %q", status)
	}
}

func TestRenderErrors(t *testing.T) {
	input := writeSample(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"links without root dir", []string{"render", input, "--links"}, errors.ErrCodeInvalidPath},
		{"unknown format", []string{"render", input, "-f", "pdf"}, errors.ErrCodeInvalidFormat},
		{"missing graph", []string{"render", filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeFileNotFound},
		{"missing ignore file", []string{"render", input, "--ignore-file", "nope.ignore"}, errors.ErrCodeFileNotFound},
		{"bad input format", []string{"render", "--input-format", "xml"}, errors.ErrCodeInvalidFormat},
		{"empty pattern", []string{"render", input, "--include", "a,,b"}, errors.ErrCodeInvalidInput},
		{"missing config", []string{"render", input, "--config", "nope.toml"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "{}", tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestRenderDirectionFlagsExclusive(t *testing.T) {
	if _, _, err := runCLI(t, "", "render", writeSample(t), "--LR", "--TB"); err == nil {
		t.Error("--LR and --TB together should fail")
	}
}

func TestRenderIgnoreFile(t *testing.T) {
	ignore := filepath.Join(t.TempDir(), ".dirgraphignore")
	if err := os.WriteFile(ignore, []byte("# tests\ntest/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, "", "render", writeSample(t), "--ignore-file", ignore)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if strings.Contains(out, "test") {
		t.Errorf("ignored files should not be rendered:\n%s", out)
	}
}

func TestOutputPaths(t *testing.T) {
	both := pipeline.Options{Formats: []string{pipeline.FormatMermaid, pipeline.FormatJSON}}
	tests := []struct {
		name   string
		output string
		input  string
		opts   pipeline.Options
		want   map[string]string
	}{
		{
			name:   "single format uses output as given",
			output: "deps.txt",
			opts:   pipeline.Options{Formats: []string{pipeline.FormatMermaid}},
			want:   map[string]string{"mermaid": "deps.txt"},
		},
		{
			name:   "single format output naming the input",
			output: "./data/graph.json",
			input:  "data/graph.json",
			opts:   pipeline.Options{Formats: []string{pipeline.FormatJSON}},
			want:   map[string]string{"json": "./data/graph.filtered.json"},
		},
		{
			name:   "known extension stripped",
			output: "deps.svg",
			opts:   both,
			want:   map[string]string{"mermaid": "deps.mmd", "json": "deps.json"},
		},
		{
			name:  "base from input avoids overwriting it",
			input: "graph.json",
			opts:  both,
			want:  map[string]string{"mermaid": "graph.mmd", "json": "graph.filtered.json"},
		},
		{
			name:   "markdown extension",
			output: "docs/deps",
			opts:   pipeline.Options{Formats: []string{pipeline.FormatMermaid, pipeline.FormatDOT}, Markdown: true},
			want:   map[string]string{"mermaid": "docs/deps.md", "dot": "docs/deps.dot"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(tt.output, tt.input, tt.opts)
			if err != nil {
				t.Fatalf("outputPaths() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("path[%s] = %q, want %q", k, got[k], v)
				}
			}
		})
	}

	if _, err := outputPaths("", "", both); err == nil {
		t.Error("several formats from stdin without --output should fail")
	}
}

func TestRenderNeverOverwritesInput(t *testing.T) {
	input := writeSample(t)
	before, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, "", "render", input, "-f", "json", "-o", input, "--exclude", "test"); err != nil {
		t.Fatalf("render: %v", err)
	}

	after, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("input graph was overwritten")
	}
	filtered := strings.TrimSuffix(input, ".json") + ".filtered.json"
	data, err := os.ReadFile(filtered)
	if err != nil {
		t.Fatalf("expected %s: %v", filtered, err)
	}
	if strings.Contains(string(data), "test/app.test.ts") {
		t.Errorf("filtered output should drop excluded files:\n%s", data)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct{ output, input, want string }{
		{"", "graph.json", "graph"},
		{"", "dir/graph.yaml", "dir/graph"},
		{"out.mmd", "graph.json", "out"},
		{"out.md", "graph.json", "out"},
		{"out", "graph.json", "out"},
		{"out.v2", "graph.json", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}
