package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestRenderMessage(t *testing.T) {
	tests := []struct {
		formats []string
		want    string
	}{
		{[]string{"svg"}, "Rendering svg…"},
		{[]string{"svg", "dot"}, "Rendering svg, dot…"},
		{[]string{"mermaid", "dot", "json"}, "Rendering mermaid, dot, json…"},
	}
	for _, tt := range tests {
		if got := renderMessage(tt.formats); got != tt.want {
			t.Errorf("renderMessage(%v) = %q, want %q", tt.formats, got, tt.want)
		}
	}
}

func TestRenderSpinnerStartStop(t *testing.T) {
	var buf bytes.Buffer
	s := newRenderSpinner(&buf)

	s.start(context.Background(), []string{"svg", "dot"})
	if !s.running() {
		t.Fatal("spinner should run after start")
	}
	s.stop()
	if s.running() {
		t.Error("spinner should not run after stop")
	}

	out := stripANSI(buf.String())
	if !strings.Contains(out, "Rendering svg, dot…") {
		t.Errorf("output = %q, want the rendering formats", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output = %q, want the line cleared on stop", out)
	}

	n := buf.Len()
	s.stop()
	if buf.Len() != n {
		t.Error("stopping an idle spinner should write nothing")
	}
}

func TestRenderSpinnerRestartKeepsOneLoop(t *testing.T) {
	var buf bytes.Buffer
	s := newRenderSpinner(&buf)
	s.start(context.Background(), []string{"svg"})
	s.start(context.Background(), []string{"dot"})

	s.mu.Lock()
	msg := s.msg
	s.mu.Unlock()
	if msg != "Rendering dot…" {
		t.Errorf("message = %q, want the latest formats", msg)
	}
	s.stop()
	if s.running() {
		t.Error("a single stop should end a restarted spinner")
	}
}

func TestRenderSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newRenderSpinner(io.Discard)
	s.start(ctx, []string{"svg"})
	cancel()
	time.Sleep(2 * spinnerInterval)

	done := make(chan struct{})
	go func() {
		s.stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop blocked after the context was cancelled")
	}
}

func TestLogHooksDriveSpinner(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(io.Discard, log.InfoLevel)}
	s := newRenderSpinner(&buf)
	ctx := withSpinner(context.Background(), s)

	h.OnRenderStart(ctx, []string{"svg"})
	if !s.running() {
		t.Fatal("OnRenderStart should start the attached spinner")
	}
	h.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	if s.running() {
		t.Error("OnRenderComplete should stop the attached spinner")
	}
	if out := stripANSI(buf.String()); !strings.Contains(out, "Rendering svg…") {
		t.Errorf("output = %q", out)
	}

	if spinnerFromContext(context.Background()) != nil {
		t.Error("a bare context should carry no spinner")
	}
}

func TestRenderSpinnerOnlyOnCacheMiss(t *testing.T) {
	input := writeSample(t)
	output := filepath.Join(t.TempDir(), "deps.dot")

	_, status, err := runCLI(t, "", "render", input, "-f", "dot", "-o", output, "--refresh")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stripANSI(status), "Rendering dot…") {
		t.Errorf("fresh render should show the spinner: %q", status)
	}

	_, status, err = runCLI(t, "", "render", input, "-f", "dot", "-o", output)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(status, "Rendering") {
		t.Errorf("cached render should not show the spinner: %q", status)
	}
}
