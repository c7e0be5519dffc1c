package jsontext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/jsontext"
)

func withEnv(t *testing.T) {
	t.Helper()
	env.StartUp(nil)
	t.Cleanup(env.ShutDown)
}

func TestReadScalarRoundTrip(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader(`{"a": 1, "b": "hi", "c": true, "d": null}`, jsontext.Options{})

	require.NoError(t, r.ReadMapRoot())

	name, err := r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "a", name)
	v, err := r.ReadInt(32)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)

	name, err = r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "b", name)
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	name, err = r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "c", name)
	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	name, err = r.ReadName()
	require.NoError(t, err)
	assert.Equal(t, "d", name)
	require.NoError(t, r.ReadNil())

	require.NoError(t, r.ReadMapEnd())
	require.NoError(t, r.Finish())
}

func TestDuplicateKeyRejected(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader(`{"a": 1, "a": 2}`, jsontext.Options{})
	require.NoError(t, r.ReadMapRoot())
	_, err := r.ReadName()
	require.NoError(t, err)
	_, err = r.ReadInt(32)
	require.NoError(t, err)
	_, err = r.ReadName()
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.DuplicatedKey.Sentinel())
}

func TestTrailingCommaAllowed(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader(`[1, 2, 3,]`, jsontext.Options{})
	require.NoError(t, r.ReadArrayRoot())
	for i := 0; i < 3; i++ {
		v, err := r.ReadInt(32)
		require.NoError(t, err)
		assert.EqualValues(t, i+1, v)
	}
	require.NoError(t, r.ReadArrayEnd())
	require.NoError(t, r.Finish())
}

func TestCommentsIgnored(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader("// leading\n{ \"a\": /* inline */ 1 }\n", jsontext.Options{})
	require.NoError(t, r.ReadMapRoot())
	_, err := r.ReadName()
	require.NoError(t, err)
	v, err := r.ReadInt(32)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
	require.NoError(t, r.ReadMapEnd())
	require.NoError(t, r.Finish())
}

func TestNestedBlockComment(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader("/* outer /* inner */ still-outer */null", jsontext.Options{})
	require.NoError(t, r.ReadNil())
}

func TestUnclosedBlockCommentFails(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader("/* unterminated", jsontext.Options{})
	_, err := r.Peek()
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.UnclosedBlockComment.Sentinel())
}

func TestUnclosedStringFails(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader(`"abc`, jsontext.Options{})
	_, err := r.ReadString()
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.UnclosedStringLiteral.Sentinel())
}

func TestNumericCoercion(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader(`1`, jsontext.Options{})
	_, err := r.Peek()
	require.NoError(t, err)
	assert.True(t, r.Coercion(entry.Double))
	assert.True(t, r.Coercion(entry.Int64))
	assert.True(t, r.Coercion(entry.String))
	assert.False(t, r.Coercion(entry.Bool))
}

func TestStringCoercion(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader(`"x"`, jsontext.Options{})
	_, err := r.Peek()
	require.NoError(t, err)
	assert.True(t, r.Coercion(entry.Name))
	assert.True(t, r.Coercion(entry.Text))
	assert.False(t, r.Coercion(entry.Double))
}

func TestMaxDepthRejected(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader(`[[[[[1]]]]]`, jsontext.Options{MaxDepth: 3})
	require.NoError(t, r.ReadArrayRoot())
	require.NoError(t, r.ReadArrayRoot())
	err := r.ReadArrayRoot()
	require.Error(t, err)
}

func TestReferenceNullable(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader(`null`, jsontext.Options{})
	s, err := r.ReadReference(entry.ObjectReference)
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestUnexpectedTrailingTokenOnFinish(t *testing.T) {
	withEnv(t)
	r := jsontext.NewReader(`1 2`, jsontext.Options{})
	_, err := r.ReadInt(32)
	require.NoError(t, err)
	err = r.Finish()
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.UnexpectedTrailingToken.Sentinel())
}
