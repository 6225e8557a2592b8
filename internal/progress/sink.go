// BYZRA ⸻ internal/progress/sink.go
// serialized console output beside a single progress bar

package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// every line and every bar update goes through one lock,
// so log lines never tear the bar
type Sink struct {
	mu     sync.Mutex
	out    io.Writer
	bar    *progressbar.ProgressBar // nil when plain
	closed bool
}

func New(out io.Writer, total int, description string) *Sink {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionFullWidth(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(out) }),
	)
	bar.RenderBlank()
	return &Sink{out: out, bar: bar}
}

// lines only, for watch mode and non-interactive output
func NewPlain(out io.Writer) *Sink {
	return &Sink{out: out}
}

func (s *Sink) Write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil || s.closed {
		fmt.Fprintln(s.out, line)
		return
	}

	s.bar.Clear()
	fmt.Fprintln(s.out, line)
	s.bar.RenderBlank()
}

func (s *Sink) Advance(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil || s.closed {
		return
	}
	s.bar.Add(n)
}

// finishes the bar; later writes are printed plainly
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.bar != nil {
		s.bar.Finish()
	}
}
