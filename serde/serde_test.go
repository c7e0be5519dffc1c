package serde_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/jsontext"
	"github.com/brentfarrar/dcgo/property"
	"github.com/brentfarrar/dcgo/serde"
)

func withEnv(t *testing.T) {
	t.Helper()
	env.StartUp(nil)
	t.Cleanup(env.ShutDown)
}

// Color is an enum-backed int32 whose case names round-trip via
// property.Enumer instead of its numeric value.
type Color int32

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

var colorNames = map[Color]string{ColorRed: "Red", ColorGreen: "Green", ColorBlue: "Blue"}

func (c Color) EnumName() string { return colorNames[c] }

func (c *Color) SetEnumName(name string) error {
	for k, v := range colorNames {
		if v == name {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown enum name: %s", name)
}

type Shape struct {
	Tint Color `dc:",enum"`
}

func TestEnumRoundTripsByName(t *testing.T) {
	withEnv(t)
	ctx := serde.NewDefaultContext(property.NewReflectDescriptor())

	src := Shape{Tint: ColorGreen}
	w := jsontext.NewWriter(jsontext.Compact)
	require.NoError(t, serde.NewDefaultContext(property.NewReflectDescriptor()).Serialize(w, reflect.ValueOf(&src).Elem()))
	assert.Equal(t, `{"$type":"Shape","Tint":"Green"}`, w.String())

	r := jsontext.NewReader(w.String(), jsontext.Options{})
	var dst Shape
	require.NoError(t, ctx.Deserialize(r, reflect.ValueOf(&dst)))
	assert.Equal(t, ColorGreen, dst.Tint)
}

func TestRemovingEnumPredicateFailsWithNoMatchingHandler(t *testing.T) {
	withEnv(t)
	ctx := serde.NewDefaultContext(property.NewReflectDescriptor())
	ctx.RemovePredicate(serde.EnumByNamePredicateName)

	r := jsontext.NewReader(`{"Tint": "Green"}`, jsontext.Options{})
	var dst Shape
	err := ctx.Deserialize(r, reflect.ValueOf(&dst))
	require.Error(t, err, "without the predicate no handler serves the enum-tagged field")
	assert.ErrorIs(t, err, diag.NoMatchingHandler.Sentinel())
}

func TestReferenceKindRoundTrip(t *testing.T) {
	withEnv(t)

	type Node struct {
		Next property.ObjectReference
	}

	var n Node
	n.Next.SetID(mustUUID("3fa85f64-5717-4562-b3fc-2c963f66afa6"))

	ctx := serde.NewDefaultContext(property.NewReflectDescriptor())
	w := jsontext.NewWriter(jsontext.Compact)
	require.NoError(t, ctx.Serialize(w, reflect.ValueOf(&n).Elem()))

	// a Context is single-use: its outermost call leaves it Ended.
	r := jsontext.NewReader(w.String(), jsontext.Options{})
	var dst Node
	require.NoError(t, serde.NewDefaultContext(property.NewReflectDescriptor()).Deserialize(r, reflect.ValueOf(&dst)))
	assert.Equal(t, n.Next.ID(), dst.Next.ID())
}

func TestNilReferenceRoundTripsAsNull(t *testing.T) {
	withEnv(t)

	type Node struct {
		Next property.ObjectReference
	}

	ctx := serde.NewDefaultContext(property.NewReflectDescriptor())
	w := jsontext.NewWriter(jsontext.Compact)
	var n Node
	require.NoError(t, ctx.Serialize(w, reflect.ValueOf(&n).Elem()))
	assert.Equal(t, `{"$type":"Node","Next":null}`, w.String())
}

func TestNoMatchingHandlerForUnregisteredKind(t *testing.T) {
	withEnv(t)
	ctx := serde.NewContext(property.NewReflectDescriptor())

	var ch chan int
	err := ctx.Serialize(nil, reflect.ValueOf(ch))
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.NoMatchingHandler.Sentinel())
}

func TestDeserializeRequiresPointerRoot(t *testing.T) {
	withEnv(t)
	ctx := serde.NewDefaultContext(property.NewReflectDescriptor())
	r := jsontext.NewReader(`{}`, jsontext.Options{})

	var notAPointer int
	err := ctx.Deserialize(r, reflect.ValueOf(notAPointer))
	require.Error(t, err)
}

func TestArrayLengthMismatchFailsSkipOutOfRange(t *testing.T) {
	withEnv(t)
	ctx := serde.NewDefaultContext(property.NewReflectDescriptor())
	r := jsontext.NewReader(`[1,2,3]`, jsontext.Options{})

	var dst [2]int32
	err := ctx.Deserialize(r, reflect.ValueOf(&dst))
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.SkipOutOfRange.Sentinel())
}

func mustUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
