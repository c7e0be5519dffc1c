package diag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brentfarrar/dcgo/diag"
)

func TestDiagnosticFormatsMessage(t *testing.T) {
	d := diag.New(diag.DataTypeMismatch).With(diag.Str("Int32"), diag.Str("String"))
	msg := d.Error()
	assert.Contains(t, msg, "ReadWrite::DataTypeMismatch")
	assert.Contains(t, msg, "expected entry Int32, got String")
}

func TestDiagnosticIsMatchesSentinel(t *testing.T) {
	d := diag.New(diag.DuplicatedKey)
	require.True(t, d.Is(diag.DuplicatedKey.Sentinel()))
	assert.False(t, d.Is(diag.UnexpectedToken.Sentinel()))
	assert.True(t, errors.Is(d, diag.DuplicatedKey.Sentinel()))
}

func TestDiagnosticAmend(t *testing.T) {
	d := diag.New(diag.PropertyMismatch)
	d.Amend("jsontext.Reader@1:4", "jsontext.Writer@depth=2")
	msg := d.Error()
	assert.Contains(t, msg, "1:4")
	assert.Contains(t, msg, "depth=2")
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "JSON::DuplicatedKey", diag.DuplicatedKey.String())
}
