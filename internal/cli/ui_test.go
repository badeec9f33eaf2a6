package cli

import (
	"bytes"
	"testing"
)

func captureStatus(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := statusOut
	statusOut = &buf
	defer func() { statusOut = prev }()
	fn()
	return stripANSI(buf.String())
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name      string
		nodes     int
		relations int
		cached    bool
		want      string
	}{
		{"fresh", 3, 2, false, "  3 files · 2 relations · fresh\n"},
		{"cached", 3, 0, true, "  3 files · cached\n"},
		{"empty", 0, 0, false, "  fresh\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := captureStatus(t, func() { printStats(tt.nodes, tt.relations, tt.cached) })
			if got != tt.want {
				t.Errorf("printStats() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	got := captureStatus(t, func() {
		printSuccess("done %d", 1)
		printWarning("careful")
		printFile("out.mmd")
	})
	want := "✓ done 1\n! careful\n  → out.mmd\n"
	if got != want {
		t.Errorf("status = %q, want %q", got, want)
	}
}
