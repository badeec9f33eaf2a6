package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// renderSpinner animates a status line while the formats that missed the
// cache are rendered. runRender attaches one to the command context and the
// render hooks start and stop it, so a fully cached render never shows it.
type renderSpinner struct {
	out io.Writer

	mu      sync.Mutex
	msg     string
	width   int
	quit    chan struct{}
	stopped chan struct{}
}

func newRenderSpinner(out io.Writer) *renderSpinner {
	return &renderSpinner{out: out}
}

// renderMessage names the formats being rendered, in request order.
func renderMessage(formats []string) string {
	return "Rendering " + strings.Join(formats, ", ") + "…"
}

// start shows the first frame and keeps animating until stop is called or
// ctx is done. Starting a running spinner only replaces its message.
func (s *renderSpinner) start(ctx context.Context, formats []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msg = renderMessage(formats)
	if s.quit != nil {
		return
	}
	s.quit = make(chan struct{})
	s.stopped = make(chan struct{})
	s.drawLocked(0)
	go s.loop(ctx, s.quit, s.stopped)
}

func (s *renderSpinner) loop(ctx context.Context, quit, stopped chan struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.drawLocked(i)
			s.mu.Unlock()
		}
	}
}

func (s *renderSpinner) drawLocked(frame int) {
	line := styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]) + " " + StyleDim.Render(s.msg)
	fmt.Fprintf(s.out, "\r%s", line)
	s.width = max(s.width, len([]rune(s.msg))+2)
}

// stop ends the animation and blanks the line. It is a no-op when the
// spinner is not running.
func (s *renderSpinner) stop() {
	s.mu.Lock()
	quit, stopped := s.quit, s.stopped
	s.quit, s.stopped = nil, nil
	s.mu.Unlock()
	if quit == nil {
		return
	}

	close(quit)
	<-stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

func (s *renderSpinner) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quit != nil
}

const spinnerKey ctxKey = 1

func withSpinner(ctx context.Context, s *renderSpinner) context.Context {
	return context.WithValue(ctx, spinnerKey, s)
}

// spinnerFromContext returns the spinner attached by runRender, or nil.
func spinnerFromContext(ctx context.Context) *renderSpinner {
	s, _ := ctx.Value(spinnerKey).(*renderSpinner)
	return s
}
