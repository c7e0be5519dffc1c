package property_test

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/property"
)

func withEnv(t *testing.T) {
	t.Helper()
	env.StartUp(nil)
	t.Cleanup(env.ShutDown)
}

func TestResolveImmediateWhenAlreadyRegistered(t *testing.T) {
	rt := property.NewReferenceTable()
	v := reflect.ValueOf(42)
	id := rt.NewID(v)
	rt.Register(id, v)

	var got reflect.Value
	rt.Resolve(id, func(rv reflect.Value) { got = rv })
	assert.Equal(t, v.Interface(), got.Interface())
}

func TestResolveQueuedUntilRegistered(t *testing.T) {
	rt := property.NewReferenceTable()
	id := uuid.New()

	var resolved bool
	rt.Resolve(id, func(reflect.Value) { resolved = true })
	assert.False(t, resolved, "callback must wait until Register supplies the value")

	rt.Register(id, reflect.ValueOf("hi"))
	assert.True(t, resolved)
}

func TestUnresolvedListsPendingIDs(t *testing.T) {
	rt := property.NewReferenceTable()
	id1, id2 := uuid.New(), uuid.New()
	rt.Resolve(id1, func(reflect.Value) {})
	rt.Resolve(id2, func(reflect.Value) {})

	unresolved := rt.Unresolved()
	assert.ElementsMatch(t, []uuid.UUID{id1, id2}, unresolved)

	rt.Register(id1, reflect.ValueOf(1))
	assert.ElementsMatch(t, []uuid.UUID{id2}, rt.Unresolved())
}

func TestCheckResolvedFailsWithPending(t *testing.T) {
	withEnv(t)
	rt := property.NewReferenceTable()
	require.NoError(t, rt.CheckResolved())

	id := uuid.New()
	rt.Resolve(id, func(reflect.Value) {})
	assert.Error(t, rt.CheckResolved())
}
