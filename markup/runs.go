// Package markup converts inline formatted book text to and from flat
// sequences of formatted text runs.
package markup

import (
	"slices"
	"strings"
)

// Run is a piece of text with uniform character formatting.
type Run struct {
	Text        string
	Bold        bool
	Italic      bool
	Underlined  bool
	Superscript bool
	// Color is CSS color value, empty when text has default color.
	Color string
}

// SameFormat reports whether two runs carry identical formatting.
func (r Run) SameFormat(o Run) bool {
	return r.Bold == o.Bold &&
		r.Italic == o.Italic &&
		r.Underlined == o.Underlined &&
		r.Superscript == o.Superscript &&
		r.Color == o.Color
}

// Formatted reports whether run has any formatting at all.
func (r Run) Formatted() bool {
	return !r.SameFormat(Run{})
}

// MarkedUpText is immutable ordered sequence of runs. Concatenated text of
// all runs is the plain text of the fragment it was parsed from.
type MarkedUpText struct {
	runs []Run
}

// New builds text from runs, adjacent runs with identical formatting are
// merged and empty runs dropped.
func New(runs ...Run) MarkedUpText {
	var merged []Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].SameFormat(r) {
			merged[n-1].Text += r.Text
			continue
		}
		merged = append(merged, r)
	}
	return MarkedUpText{runs: merged}
}

// Plain makes single unformatted run text.
func Plain(s string) MarkedUpText {
	return New(Run{Text: s})
}

// Count returns number of runs.
func (m MarkedUpText) Count() int {
	return len(m.runs)
}

// Run returns i-th run.
func (m MarkedUpText) Run(i int) Run {
	return m.runs[i]
}

// Runs returns copy of all runs.
func (m MarkedUpText) Runs() []Run {
	return slices.Clone(m.runs)
}

// PlainText concatenates text of all runs.
func (m MarkedUpText) PlainText() string {
	var b strings.Builder
	for _, r := range m.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// HasFormatting reports whether at least one run is formatted.
func (m MarkedUpText) HasFormatting() bool {
	return slices.ContainsFunc(m.runs, Run.Formatted)
}
