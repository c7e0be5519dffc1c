// Package sourceview tracks a source buffer and line/column position, and
// renders a Span as a highlighted snippet for diagnostics.
package sourceview

import (
	"fmt"
	"strings"

	"github.com/brentfarrar/dcgo/entry"
)

// View is a non-owning wrapper around a source buffer, used to resolve an
// entry.Span into text and to compute the Location of a byte offset.
type View struct {
	Buffer string
}

func New(buf string) *View { return &View{Buffer: buf} }

// Text returns the substring named by span, clamped to the buffer bounds.
func (v *View) Text(span entry.Span) string {
	begin := clamp(span.Begin, 0, len(v.Buffer))
	end := clamp(span.End(), begin, len(v.Buffer))
	return v.Buffer[begin:end]
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// LocationAt computes the 1-indexed line/column of a byte offset by
// scanning the buffer up to that point. Used sparingly: the hot path
// (jsontext.Reader) tracks line/column incrementally as it advances and
// only falls back to this for out-of-band highlight rendering.
func (v *View) LocationAt(offset int) entry.Location {
	offset = clamp(offset, 0, len(v.Buffer))
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if v.Buffer[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return entry.Location{Line: line, Column: col}
}

// Highlighter renders a Span (or a bare offset+length) into a human
// readable block showing the offending text with surrounding context,
// mirroring the source's FormatHighlight helper.
type Highlighter struct {
	View *View
	// ContextLines is how many lines of surrounding source to show above
	// and below the highlighted line. Zero means "just the one line".
	ContextLines int
}

func NewHighlighter(v *View) *Highlighter {
	return &Highlighter{View: v, ContextLines: 1}
}

// Format renders the span starting at begin with length num.
func (h *Highlighter) Format(begin, num int) string {
	return h.FormatSpan(entry.Span{Begin: begin, Num: num})
}

// FormatSpan renders a highlighted block for span, with up to
// ContextLines of source before and after the offending line and a caret
// line pointing at the exact columns.
func (h *Highlighter) FormatSpan(span entry.Span) string {
	buf := h.View.Buffer
	lines := strings.Split(buf, "\n")

	startLoc := h.View.LocationAt(span.Begin)
	endOffset := span.End()
	if endOffset > 0 {
		endOffset--
	}
	endLoc := h.View.LocationAt(endOffset)

	lo := startLoc.Line - 1 - h.ContextLines
	if lo < 0 {
		lo = 0
	}
	hi := endLoc.Line - 1 + h.ContextLines
	if hi >= len(lines) {
		hi = len(lines) - 1
	}

	var b strings.Builder
	for i := lo; i <= hi; i++ {
		fmt.Fprintf(&b, "%4d | %s\n", i+1, lines[i])
		if i+1 == startLoc.Line {
			caretCol := startLoc.Column
			caretLen := 1
			if endLoc.Line == startLoc.Line {
				caretLen = endLoc.Column - startLoc.Column + 1
				if caretLen < 1 {
					caretLen = 1
				}
			}
			fmt.Fprintf(&b, "     | %s%s\n", strings.Repeat(" ", caretCol-1), strings.Repeat("^", caretLen))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
