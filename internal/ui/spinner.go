package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner displays an animated spinner with a message on stderr while a
// catalog is scanned or a report is built.
type Spinner struct {
	message string
	frames  []string
	out     io.Writer
	animate bool
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	current int
	stopped bool
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner writing to stderr. It only animates when
// stderr is a terminal.
func NewSpinner(message string) *Spinner {
	fd := os.Stderr.Fd()
	return newSpinner(message, os.Stderr, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func newSpinner(message string, out io.Writer, animate bool) *Spinner {
	return &Spinner{
		message: message,
		frames:  defaultFrames,
		out:     out,
		animate: animate,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation. Without a terminal nothing is printed.
func (s *Spinner) Start() {
	if !s.animate {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := s.frames[s.current%len(s.frames)]
				s.current++
				s.mu.Unlock()
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(frame), s.message)
			}
		}
	}()
}

// Stop stops the spinner. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}
