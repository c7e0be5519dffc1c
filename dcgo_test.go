package dcgo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brentfarrar/dcgo"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/jsontext"
)

func withEnv(t *testing.T) {
	t.Helper()
	env.StartUp(nil)
	t.Cleanup(env.ShutDown)
}

type Address struct {
	City string
	Zip  string
}

type Person struct {
	Name     string
	Age      int32
	Tags     []string
	Score    float64
	Home     *Address
	Office   *Address
	Lookup   map[string]int32
	Friends  map[string]struct{}
}

func TestRoundTripStruct(t *testing.T) {
	withEnv(t)

	src := Person{
		Name:    "Ada",
		Age:     30,
		Tags:    []string{"engineer", "historian"},
		Score:   9.5,
		Home:    &Address{City: "London", Zip: "W1"},
		Office:  nil,
		Lookup:  map[string]int32{"x": 1, "y": 2},
		Friends: map[string]struct{}{"Babbage": {}},
	}

	w := jsontext.NewWriter(jsontext.Compact)
	require.NoError(t, dcgo.Serialize(&src, w))

	r := jsontext.NewReader(w.String(), jsontext.Options{})
	var dst Person
	require.NoError(t, dcgo.Deserialize(&dst, r))
	require.NoError(t, r.Finish())

	assert.Equal(t, src.Name, dst.Name)
	assert.Equal(t, src.Age, dst.Age)
	assert.Equal(t, src.Tags, dst.Tags)
	assert.Equal(t, src.Score, dst.Score)
	require.NotNil(t, dst.Home)
	assert.Equal(t, *src.Home, *dst.Home)
	assert.Nil(t, dst.Office)
	assert.Equal(t, src.Lookup, dst.Lookup)
	assert.Equal(t, src.Friends, dst.Friends)
}

func TestDeserializeAnyTypedField(t *testing.T) {
	withEnv(t)

	type Envelope struct {
		Payload any
	}

	r := jsontext.NewReader(`{"Payload": {"a": 1, "b": [1, 2, "three"]}}`, jsontext.Options{})
	var env Envelope
	require.NoError(t, dcgo.Deserialize(&env, r))
	require.NoError(t, r.Finish())

	m, ok := env.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), m["a"])
	arr, ok := m["b"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{float64(1), float64(2), "three"}, arr)
}
