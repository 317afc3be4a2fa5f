package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	doneColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
	infoColor  = color.New(color.FgCyan)
	faintColor = color.New(color.Faint)
)

// SpinnerSink reports deployment stages on stderr with a spinner.
// Finished stages are printed as a checklist so stdout stays reserved for results.
type SpinnerSink struct {
	spinner *spinner.Spinner
	out     io.Writer
	title   cases.Caser

	current   *usecase.ProgressEvent
	startedAt time.Time
}

// NewSpinnerSink creates a spinner sink writing to stderr
func NewSpinnerSink() *SpinnerSink {
	return newSpinnerSink(os.Stderr, spinner.WithWriterFile(os.Stderr))
}

func newSpinnerSink(out io.Writer, opts ...spinner.Option) *SpinnerSink {
	opts = append([]spinner.Option{spinner.WithWriter(out)}, opts...)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, opts...)
	s.HideCursor = false

	return &SpinnerSink{
		spinner: s,
		out:     out,
		title:   cases.Title(language.English),
	}
}

// OnProgress handles progress events
func (s *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if s.current != nil && s.current.Stage != event.Stage {
		s.finishCurrent(doneColor, "✓")
	}

	switch event.Stage {
	case usecase.StageCompleted:
		s.stop()
		s.current = nil
		doneColor.Fprintf(s.out, "✓ %s\n", event.Message)
		return
	case usecase.StageDeployed:
		// printed right away, the caller writes the result line next
		s.stop()
		s.current = nil
		fmt.Fprintf(s.out, "%s %s\n", doneColor.Sprint("✓"), s.label(event))
		return
	}

	if s.current == nil || s.current.Stage != event.Stage {
		s.startedAt = time.Now()
	}
	current := event
	s.current = &current

	s.spinner.Suffix = " " + s.label(event)
	if event.Spinner {
		if !s.spinner.Active() {
			s.spinner.Start()
		}
	} else {
		s.stop()
	}
}

// Info prints an info message
func (s *SpinnerSink) Info(message string) {
	s.pause(func() {
		infoColor.Fprintln(s.out, message)
	})
}

// Error marks the running stage as failed; the error itself is reported by the caller
func (s *SpinnerSink) Error(message string) {
	s.stop()
	if s.current != nil {
		s.finishCurrent(failColor, "✗")
		return
	}
	failColor.Fprintf(s.out, "✗ %s\n", message)
}

// finishCurrent prints the running stage with a status icon
func (s *SpinnerSink) finishCurrent(c *color.Color, icon string) {
	s.stop()
	duration := time.Since(s.startedAt).Round(time.Millisecond)
	fmt.Fprintf(s.out, "%s %s %s\n", c.Sprint(icon), s.label(*s.current), faintColor.Sprintf("(%s)", duration))
	s.current = nil
}

func (s *SpinnerSink) label(event usecase.ProgressEvent) string {
	label := fmt.Sprintf("%s: %s", s.title.String(string(event.Stage)), event.Message)
	if event.Total > 0 {
		label = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, label)
	}
	return label
}

func (s *SpinnerSink) pause(fn func()) {
	wasActive := s.spinner.Active()
	if wasActive {
		s.spinner.Stop()
	}
	fn()
	if wasActive {
		s.spinner.Start()
	}
}

func (s *SpinnerSink) stop() {
	if s.spinner.Active() {
		s.spinner.Stop()
	}
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
