package env_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/env"
)

func TestStartUpShutDown(t *testing.T) {
	assert.False(t, env.IsInitialized())
	env.StartUp(nil)
	defer env.ShutDown()
	assert.True(t, env.IsInitialized())
}

func TestDiagAccumulatesAndFlushes(t *testing.T) {
	var got []string
	env.StartUp(env.NewConsoleConsumer(func(s string) { got = append(got, s) }))
	defer env.ShutDown()

	e := env.Current()
	e.Diag(diag.NotInitialized)
	e.Diag(diag.Unreachable)
	require.Len(t, e.Diagnostics, 2)

	e.FlushDiags()
	assert.Len(t, got, 2)
	assert.Nil(t, e.Diagnostics)
}

func TestLastDiag(t *testing.T) {
	env.StartUp(nil)
	defer env.ShutDown()

	e := env.Current()
	assert.Nil(t, e.LastDiag())
	d := e.Diag(diag.Unreachable)
	assert.Same(t, d, e.LastDiag())
}

func TestPushPopIsolatesDiagnostics(t *testing.T) {
	var got []string
	env.StartUp(env.NewConsoleConsumer(func(s string) { got = append(got, s) }))
	defer env.ShutDown()

	env.Current().Diag(diag.Unreachable)

	child := env.Push()
	child.Diag(diag.NotInitialized)
	assert.Same(t, child, env.Current())
	env.Pop()

	assert.NotSame(t, child, env.Current())
	assert.Len(t, got, 1)
}

func TestCurrentPanicsWithoutStartUp(t *testing.T) {
	assert.Panics(t, func() { env.Current() })
}

func TestWithEnvironmentAndFromContext(t *testing.T) {
	env.StartUp(nil)
	defer env.ShutDown()

	custom := &env.Environment{}
	ctx := env.WithEnvironment(context.Background(), custom)
	assert.Same(t, custom, env.FromContext(ctx))
	assert.Same(t, env.Current(), env.FromContext(context.Background()))
}

func TestConsoleConsumerDefaultPrint(t *testing.T) {
	c := env.NewConsoleConsumer(nil)
	assert.NotNil(t, c.Print)
	assert.NotPanics(t, func() { c.HandleDiagnostic(diag.New(diag.Unreachable)) })
}
