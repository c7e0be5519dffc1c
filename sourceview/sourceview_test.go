package sourceview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/sourceview"
)

func TestTextClamps(t *testing.T) {
	v := sourceview.New(`{"a":1}`)
	assert.Equal(t, `"a"`, v.Text(entry.Span{Begin: 1, Num: 3}))
	assert.Equal(t, "", v.Text(entry.Span{Begin: 100, Num: 3}))
}

func TestLocationAt(t *testing.T) {
	v := sourceview.New("line one\nline two\nline three")
	loc := v.LocationAt(9)
	assert.Equal(t, entry.Location{Line: 2, Column: 1}, loc)
}

func TestHighlighterFormatSpan(t *testing.T) {
	v := sourceview.New("{\n  \"a\": tru\n}")
	h := sourceview.NewHighlighter(v)
	out := h.Format(9, 3)
	assert.Contains(t, out, "tru")
	assert.Contains(t, out, "^^^")
}
