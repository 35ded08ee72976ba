package scraper

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// Progress reports advancement through a loop of sub-page fetches.
// It is purely informational.
type Progress interface {
	Begin(message string, total int)
	Advance()
	End()
}

type noProgress struct{}

func (noProgress) Begin(string, int) {}
func (noProgress) Advance()          {}
func (noProgress) End()              {}

// TerminalProgress renders a go-pretty progress bar per loop and doubles as
// the console log writer sharing the same terminal.
//
// Records written while a bar is on screen are held back and flushed below
// the finished bar, so a log line never lands inside a redraw. Outside a
// loop, writes go straight through.
type TerminalProgress struct {
	mu      sync.Mutex
	out     io.Writer
	held    [][]byte
	tracker *progress.Tracker
	done    chan struct{}
}

var (
	_ Progress  = (*TerminalProgress)(nil)
	_ io.Writer = (*TerminalProgress)(nil)
)

// NewTerminalProgress creates a TerminalProgress drawing on out.
func NewTerminalProgress(out io.Writer) *TerminalProgress {
	return &TerminalProgress{out: out}
}

// Write implements io.Writer for log handlers.
func (p *TerminalProgress) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tracker != nil {
		p.held = append(p.held, bytes.Clone(b))
		return len(b), nil
	}
	return p.out.Write(b)
}

// Begin starts a bar for a loop of total steps, finishing any previous one.
func (p *TerminalProgress) Begin(message string, total int) {
	p.End()

	pw := progress.NewWriter()
	pw.SetOutputWriter(p.out)
	pw.SetAutoStop(true)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Percentage = true

	tracker := &progress.Tracker{
		Message: message,
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(tracker)

	done := make(chan struct{})
	p.mu.Lock()
	p.tracker = tracker
	p.done = done
	p.mu.Unlock()

	go func() {
		pw.Render()
		close(done)
	}()
}

// Advance moves the current bar one step.
func (p *TerminalProgress) Advance() {
	p.mu.Lock()
	tracker := p.tracker
	p.mu.Unlock()

	if tracker != nil {
		tracker.Increment(1)
	}
}

// End marks the current bar done, waits for the final render and then
// writes the records held during the loop.
func (p *TerminalProgress) End() {
	p.mu.Lock()
	tracker, done := p.tracker, p.done
	p.mu.Unlock()
	if tracker == nil {
		return
	}

	tracker.MarkAsDone()
	<-done

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.held {
		_, _ = p.out.Write(b)
	}
	p.held = nil
	p.tracker = nil
	p.done = nil
}
