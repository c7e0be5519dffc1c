package jsontext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/jsontext"
)

func TestWriteCompactObject(t *testing.T) {
	w := jsontext.NewWriter(jsontext.Compact)
	require.NoError(t, w.WriteMapRoot())
	require.NoError(t, w.WriteName("a"))
	require.NoError(t, w.WriteInt(32, 1))
	require.NoError(t, w.WriteName("b"))
	require.NoError(t, w.WriteString("hi"))
	require.NoError(t, w.WriteMapEnd())
	assert.Equal(t, `{"a":1,"b":"hi"}`, w.String())
}

func TestWriteCondensedArray(t *testing.T) {
	w := jsontext.NewWriter(jsontext.Condensed)
	require.NoError(t, w.WriteArrayRoot())
	require.NoError(t, w.WriteInt(32, 1))
	require.NoError(t, w.WriteInt(32, 2))
	require.NoError(t, w.WriteArrayEnd())
	assert.Equal(t, `[1, 2]`, w.String())
}

func TestWriteDefaultIndents(t *testing.T) {
	w := jsontext.NewWriter(jsontext.Default)
	require.NoError(t, w.WriteMapRoot())
	require.NoError(t, w.WriteName("a"))
	require.NoError(t, w.WriteInt(32, 1))
	require.NoError(t, w.WriteMapEnd())
	assert.Equal(t, "{\n\t\"a\": 1\n}", w.String())
}

func TestWriteNilReference(t *testing.T) {
	w := jsontext.NewWriter(jsontext.Compact)
	require.NoError(t, w.WriteReference(entry.ObjectReference, ""))
	assert.Equal(t, "null", w.String())
}

func TestWriteReferenceNonEmpty(t *testing.T) {
	w := jsontext.NewWriter(jsontext.Compact)
	require.NoError(t, w.WriteReference(entry.ObjectReference, "abc-123"))
	assert.Equal(t, `"abc-123"`, w.String())
}

func TestWriteStructRootWithTypeTag(t *testing.T) {
	w := jsontext.NewWriter(jsontext.Compact)
	require.NoError(t, w.WriteStructRoot("Foo"))
	require.NoError(t, w.WriteName("x"))
	require.NoError(t, w.WriteInt(32, 1))
	require.NoError(t, w.WriteStructEnd())
	assert.Equal(t, `{"$type":"Foo","x":1}`, w.String())
}

func TestWriteStringEscaping(t *testing.T) {
	w := jsontext.NewWriter(jsontext.Compact)
	require.NoError(t, w.WriteString("a\"b\\c\nd"))
	assert.Equal(t, `"a\"b\\c\nd"`, w.String())
}

func TestWriteMulticastDelegate(t *testing.T) {
	w := jsontext.NewWriter(jsontext.Compact)
	mc := entry.MulticastRef{Bindings: []entry.DelegateRef{
		{Object: "Foo", Method: "Bar"},
		{Object: "Baz", Method: "Qux"},
	}}
	require.NoError(t, w.WriteMulticastDelegate(entry.MulticastInlineDelegate, mc))
	assert.Equal(t, `["Foo.Bar","Baz.Qux"]`, w.String())
}
