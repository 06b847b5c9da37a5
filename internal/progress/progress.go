package progress

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for file analysis. A hidden tracker counts
// ticks without drawing anything.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	out   io.Writer
	done  atomic.Int64
}

// Option configures a Tracker.
type Option func(*settings)

type settings struct {
	out    io.Writer
	hidden bool
}

// WithWriter redirects the bar and finish messages. Defaults to stderr.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.out = w
	}
}

// WithHidden suppresses the bar when hidden is true, e.g. for machine
// readable output or when stderr is not a terminal.
func WithHidden(hidden bool) Option {
	return func(s *settings) {
		s.hidden = hidden
	}
}

func apply(opts []Option) settings {
	s := settings{out: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}
	if s.hidden {
		s.out = io.Discard
	}
	return s
}

// NewSpinner creates a spinner for operations with unknown total count,
// such as file discovery.
func NewSpinner(label string, opts ...Option) *Tracker {
	s := apply(opts)
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label, out: s.out}
}

// NewTracker creates a progress bar with the given label and total count.
func NewTracker(label string, total int, opts ...Option) *Tracker {
	s := apply(opts)
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.out),
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
	return &Tracker{bar: bar, label: label, out: s.out}
}

// Tick increments the progress by 1. Safe for concurrent use, so it can be
// passed directly as a batch progress callback.
func (t *Tracker) Tick() {
	t.done.Add(1)
	_ = t.bar.Add(1)
}

// Done reports how many ticks have been recorded.
func (t *Tracker) Done() int {
	return int(t.done.Load())
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishSkipped clears the bar and prints a skip message.
func (t *Tracker) FinishSkipped(reason string) {
	t.FinishSuccess()
	fmt.Fprintf(t.out, "  %s skipped (%s)\n", t.label, reason)
}

// FinishError clears the bar and prints an error message.
func (t *Tracker) FinishError(err error) {
	t.FinishSuccess()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}
