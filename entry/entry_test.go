package entry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brentfarrar/dcgo/entry"
)

func TestTagString(t *testing.T) {
	assert.Equal(t, "Int32", entry.Int32.String())
	assert.Equal(t, "<unknown-entry>", entry.Tag(-1).String())
}

func TestIsNumeric(t *testing.T) {
	for _, tag := range []entry.Tag{entry.Int8, entry.Int64, entry.UInt32, entry.Float, entry.Double} {
		assert.True(t, tag.IsNumeric(), tag.String())
	}
	assert.False(t, entry.String.IsNumeric())
	assert.False(t, entry.Bool.IsNumeric())
}

func TestIsReference(t *testing.T) {
	assert.True(t, entry.ObjectReference.IsReference())
	assert.True(t, entry.InterfaceReference.IsReference())
	assert.False(t, entry.StructRoot.IsReference())
}

func TestIsStructural(t *testing.T) {
	assert.True(t, entry.StructRoot.IsStructural())
	assert.True(t, entry.SetEnd.IsStructural())
	assert.False(t, entry.MapRoot.IsStructural())
}

func TestSpanEnd(t *testing.T) {
	s := entry.Span{Begin: 4, Num: 6}
	assert.Equal(t, 10, s.End())
}

func TestLocationString(t *testing.T) {
	loc := entry.Location{Line: 3, Column: 7}
	assert.Equal(t, "3:7", loc.String())
}

func TestValueString(t *testing.T) {
	v := entry.Value{Tag: entry.String, Str: "hi"}
	assert.Equal(t, `String("hi")`, v.String())
}
