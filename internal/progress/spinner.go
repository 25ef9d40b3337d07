package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator shows that a long-running step is in progress.
type Indicator interface {
	Start(label string)
	Done(label string)
	Fail(label string)
	Skip(label, reason string)
}

// Spinner animates while an external tool runs and prints one outcome line
// per step. Without a TTY it prints outcome lines only.
type Spinner struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	s       *spinner.Spinner
}

// NewSpinner creates a Spinner writing to w.
func NewSpinner(w io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{w: w, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins animating label.
func (p *Spinner) Start(label string) {
	p.stop()
	if !p.caps.IsTTY {
		return
	}
	s := spinner.New(spinner.CharSets[p.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(p.w))
	s.Suffix = " " + label
	s.Start()
	p.s = s
}

// Done stops the animation and reports success.
func (p *Spinner) Done(label string) {
	p.stop()
	fmt.Fprintf(p.w, "%s %s\n", p.symbols.Checkmark, label)
}

// Fail stops the animation and reports failure.
func (p *Spinner) Fail(label string) {
	p.stop()
	fmt.Fprintf(p.w, "%s %s\n", p.symbols.Failure, label)
}

// Skip reports a step that did not run.
func (p *Spinner) Skip(label, reason string) {
	p.stop()
	fmt.Fprintf(p.w, "%s %s (%s)\n", p.symbols.Skipped, label, reason)
}

func (p *Spinner) stop() {
	if p.s != nil {
		p.s.Stop()
		p.s = nil
	}
}

// Silent is an Indicator that prints nothing.
type Silent struct{}

func (Silent) Start(string)        {}
func (Silent) Done(string)         {}
func (Silent) Fail(string)         {}
func (Silent) Skip(string, string) {}
