package formatter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// showElapsedAfter is how long a request runs before the spinner adds a
// seconds counter.
const showElapsedAfter = 2 * time.Second

// Spinner animates a message on one terminal line while a request runs.
// Frames and rate come from the bubbles MiniDot spinner.
type Spinner struct {
	out     io.Writer
	message string
	style   spinner.Spinner

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{out: out, message: message, style: spinner.MiniDot}
}

func (s *Spinner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	started := time.Now()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.style.FPS)
		defer ticker.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-ctx.Done():
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprint(s.out, "\r\033[K"+s.line(frame, time.Since(started)))
			}
		}
	}()
}

func (s *Spinner) line(frame int, elapsed time.Duration) string {
	glyph := s.style.Frames[frame%len(s.style.Frames)]
	text := s.message
	if elapsed >= showElapsedAfter {
		text = fmt.Sprintf("%s %ds", text, int(elapsed.Seconds()))
	}
	return fmt.Sprintf("  %s %s", StylePurple.Render(glyph), Dim(text))
}

// Stop clears the line once the animation has exited. Later calls are no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
	})
}

// StartSpinner starts a spinner and returns its stop func.
func StartSpinner(out io.Writer, message string) func() {
	s := NewSpinner(out, message)
	s.Start()
	return s.Stop
}
