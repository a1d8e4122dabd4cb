// Package progress reports batch progress on stderr.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for method pair analysis. A nil Tracker is
// valid and reports nothing.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	out   io.Writer
}

// NewSpinner creates a spinner for operations with unknown total count.
func NewSpinner(label string) *Tracker {
	return NewSpinnerTo(os.Stderr, label)
}

// NewSpinnerTo creates a spinner writing to w.
func NewSpinnerTo(w io.Writer, label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label, out: w}
}

// NewTracker creates a progress bar with the given label and total count.
func NewTracker(label string, total int) *Tracker {
	return NewTrackerTo(os.Stderr, label, total)
}

// NewTrackerTo creates a progress bar writing to w.
func NewTrackerTo(w io.Writer, label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label, out: w}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t == nil {
		return
	}
	t.bar.Add(1)
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	if t == nil {
		return
	}
	t.finish()
}

// FinishSkipped clears the bar and prints a skip message.
func (t *Tracker) FinishSkipped(reason string) {
	if t == nil {
		return
	}
	t.finish()
	fmt.Fprintf(t.out, "  %s skipped (%s)\n", t.label, reason)
}

// FinishError clears the bar and prints an error message.
func (t *Tracker) FinishError(err error) {
	if t == nil {
		return
	}
	t.finish()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}

func (t *Tracker) finish() {
	t.bar.Finish()
	t.bar.Clear()
}
