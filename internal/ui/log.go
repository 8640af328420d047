// Package ui renders library progress on a terminal.
package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

const renderPollInterval = 10 * time.Millisecond

// Log writes library notifications to a terminal. Info lines always print;
// debug lines only in verbose mode. Progress renders as a live bar, except
// in verbose mode where the bar would fight the line output and each tick
// prints plainly instead.
type Log struct {
	out     io.Writer
	verbose bool

	writer  progress.Writer
	tracker *progress.Tracker
}

// NewLog creates a logger writing to out.
func NewLog(out io.Writer, verbose bool) *Log {
	return &Log{out: out, verbose: verbose}
}

// Infof prints a user-visible line.
func (l *Log) Infof(format string, args ...any) {
	fmt.Fprintf(l.out, format+"\n", args...)
}

// Debugf prints a diagnostic line in verbose mode.
func (l *Log) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}

	fmt.Fprintf(l.out, format+"\n", args...)
}

// BeginProgress opens a progress bar over total items.
func (l *Log) BeginProgress(title string, total int) {
	if l.verbose {
		fmt.Fprintf(l.out, "%s: %d\n", title, total)

		return
	}

	l.writer = progress.NewWriter()
	l.writer.SetOutputWriter(l.out)
	l.writer.SetAutoStop(false)
	l.writer.SetTrackerPosition(progress.PositionRight)
	l.writer.SetUpdateFrequency(50 * time.Millisecond)

	l.tracker = &progress.Tracker{Message: title, Total: int64(total)}
	l.writer.AppendTracker(l.tracker)

	go l.writer.Render()
}

// Advance ticks the bar and shows description as the current item.
func (l *Log) Advance(title, description string) {
	if l.tracker == nil {
		l.Debugf("%s: %s", title, description)

		return
	}

	l.tracker.UpdateMessage(fmt.Sprintf("%s: %s", title, description))
	l.tracker.Increment(1)
}

// EndProgress stops the bar and waits for the final frame.
func (l *Log) EndProgress() {
	if l.writer == nil {
		return
	}

	l.tracker.MarkAsDone()
	l.writer.Stop()

	for l.writer.IsRenderInProgress() {
		time.Sleep(renderPollInterval)
	}

	l.writer = nil
	l.tracker = nil
}
