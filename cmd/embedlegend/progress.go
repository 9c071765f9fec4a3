package main

import (
	"fmt"
	"io"
)

// progressLine reports export progress as a percentage on one terminal line.
// Cancellation goes through the command context, so it never cancels itself.
type progressLine struct {
	w     io.Writer
	label string
	total int
	last  int
}

func newProgressLine(w io.Writer, label string, total int) *progressLine {
	return &progressLine{w: w, label: label, total: total, last: -1}
}

func (p *progressLine) SetValue(v int) {
	if p.total <= 0 {
		return
	}
	pct := min(100, max(0, v*100/p.total))
	if pct == p.last {
		return
	}
	p.last = pct
	fmt.Fprintf(p.w, "\r%s %3d%%", paint(styleDim, p.label), pct)
}

func (p *progressLine) WasCanceled() bool { return false }

// done ends the progress line if anything was printed.
func (p *progressLine) done() {
	if p.last >= 0 {
		fmt.Fprintln(p.w)
	}
}
