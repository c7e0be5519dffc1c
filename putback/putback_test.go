package putback_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/jsontext"
	"github.com/brentfarrar/dcgo/putback"
)

func withEnv(t *testing.T) {
	t.Helper()
	env.StartUp(nil)
	t.Cleanup(env.ShutDown)
}

func TestPutbackServedThenForwardsToUnderlying(t *testing.T) {
	withEnv(t)
	under := jsontext.NewReader("false", jsontext.Options{})
	r := putback.New(under)

	r.Putback(entry.Value{Tag: entry.Bool, Bool: true})

	tag, err := r.Peek()
	require.NoError(t, err)
	assert.Equal(t, entry.Bool, tag)

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b, "putback value should be served before the underlying reader")

	b2, err := r.ReadBool()
	require.NoError(t, err)
	assert.False(t, b2, "once the putback stack is drained, reads forward to the underlying reader")
}

func TestPutbackStackIsLIFO(t *testing.T) {
	withEnv(t)
	r := putback.New(jsontext.NewReader("0", jsontext.Options{}))
	r.Putback(entry.Value{Tag: entry.String, Str: "first"})
	r.Putback(entry.Value{Tag: entry.String, Str: "second"})

	s1, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "second", s1)

	s2, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "first", s2)
}

func TestRejectsStructuralPutback(t *testing.T) {
	withEnv(t)
	r := putback.New(jsontext.NewReader("{}", jsontext.Options{}))
	r.Putback(entry.Value{Tag: entry.StructRoot})

	_, err := r.ReadStructRoot()
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.CantUsePutbackValue.Sentinel())
}

func TestRejectsReferencePutback(t *testing.T) {
	withEnv(t)
	r := putback.New(jsontext.NewReader(`null`, jsontext.Options{}))
	r.Putback(entry.Value{Tag: entry.ObjectReference, Ref: "abc"})

	_, err := r.ReadReference(entry.ObjectReference)
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.CantUsePutbackValue.Sentinel())
}

func TestContainerRootPutbackIsDataTypeOnly(t *testing.T) {
	withEnv(t)
	under := jsontext.NewReader(`{"a":1}`, jsontext.Options{})
	r := putback.New(under)
	require.NoError(t, under.ReadMapRoot())
	r.Putback(entry.Value{Tag: entry.MapRoot})

	// the root already read from the underlying reader is replayed from the
	// putback (popped and discarded); the next call forwards to the object's
	// first key.
	require.NoError(t, r.ReadMapRoot())
	name, err := r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "a", name)
}

func TestCoercionFalseWhileStackNonEmpty(t *testing.T) {
	withEnv(t)
	under := jsontext.NewReader("1", jsontext.Options{})
	_, err := under.Peek()
	require.NoError(t, err)

	r := putback.New(under)
	assert.True(t, r.Coercion(entry.Double), "with an empty stack, Coercion forwards to the underlying reader")

	r.Putback(entry.Value{Tag: entry.Int32, Int: 1})
	assert.False(t, r.Coercion(entry.Double), "a non-empty putback stack always refuses coercion")
}
