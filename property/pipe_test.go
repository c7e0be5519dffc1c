package property_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/property"
)

type pipeStruct struct {
	A int32
	B string
}

func TestKindToEntryScalars(t *testing.T) {
	assert.Equal(t, entry.Int32, property.KindToEntry(reflect.TypeOf(int32(0)), false))
	assert.Equal(t, entry.UInt64, property.KindToEntry(reflect.TypeOf(uint64(0)), false))
	assert.Equal(t, entry.Double, property.KindToEntry(reflect.TypeOf(float64(0)), false))
	assert.Equal(t, entry.String, property.KindToEntry(reflect.TypeOf(""), false))
	assert.Equal(t, entry.Enum, property.KindToEntry(reflect.TypeOf(int32(0)), true))
}

func TestKindToEntryContainers(t *testing.T) {
	assert.Equal(t, entry.StructRoot, property.KindToEntry(reflect.TypeOf(pipeStruct{}), false))
	assert.Equal(t, entry.ArrayRoot, property.KindToEntry(reflect.TypeOf([]int32{}), false))
	assert.Equal(t, entry.Blob, property.KindToEntry(reflect.TypeOf([]byte{}), false))
	assert.Equal(t, entry.MapRoot, property.KindToEntry(reflect.TypeOf(map[string]int{}), false))
	assert.Equal(t, entry.SetRoot, property.KindToEntry(reflect.TypeOf(map[string]struct{}{}), false))
	assert.Equal(t, entry.ClassRoot, property.KindToEntry(reflect.TypeOf(&pipeStruct{}), false))
}

func TestKindToEntrySpecialTypes(t *testing.T) {
	assert.Equal(t, entry.ObjectReference, property.KindToEntry(reflect.TypeOf(property.ObjectReference{}), false))
	assert.Equal(t, entry.Delegate, property.KindToEntry(reflect.TypeOf(entry.DelegateRef{}), false))
	assert.Equal(t, entry.MulticastInlineDelegate, property.KindToEntry(reflect.TypeOf(entry.MulticastRef{}), false))
}

func TestWriteDataEntryExactMatch(t *testing.T) {
	env.StartUp(nil)
	defer env.ShutDown()

	w := property.NewPropertyWriter(property.NewReflectDescriptor())
	v := reflect.ValueOf(&pipeStruct{}).Elem()
	require.NoError(t, w.PushStruct(v))

	fi, err := w.FindByName("A")
	require.NoError(t, err)

	_, err = w.WriteDataEntry(v.Field(fi.Index), fi, entry.Int32)
	assert.NoError(t, err)
}

func TestWriteDataEntryCoercedNumeric(t *testing.T) {
	env.StartUp(nil)
	defer env.ShutDown()

	w := property.NewPropertyWriter(property.NewReflectDescriptor())
	v := reflect.ValueOf(&pipeStruct{}).Elem()
	require.NoError(t, w.PushStruct(v))

	fi, err := w.FindByName("A")
	require.NoError(t, err)

	// wire peeked a generic Double (JSON has one number shape); an Int32
	// field still accepts it via numeric coercion.
	_, err = w.WriteDataEntry(v.Field(fi.Index), fi, entry.Double)
	assert.NoError(t, err)
}

func TestWriteDataEntryMismatchFails(t *testing.T) {
	env.StartUp(nil)
	defer env.ShutDown()

	w := property.NewPropertyWriter(property.NewReflectDescriptor())
	v := reflect.ValueOf(&pipeStruct{}).Elem()
	require.NoError(t, w.PushStruct(v))

	fi, err := w.FindByName("A")
	require.NoError(t, err)

	_, err = w.WriteDataEntry(v.Field(fi.Index), fi, entry.MapRoot)
	assert.Error(t, err)
}

func TestFindByNameMissingFails(t *testing.T) {
	env.StartUp(nil)
	defer env.ShutDown()

	w := property.NewPropertyWriter(property.NewReflectDescriptor())
	v := reflect.ValueOf(&pipeStruct{}).Elem()
	require.NoError(t, w.PushStruct(v))

	_, err := w.FindByName("Missing")
	assert.Error(t, err)
}

func TestPropertyReaderIteratesFields(t *testing.T) {
	env.StartUp(nil)
	defer env.ShutDown()

	r := property.NewPropertyReader(property.NewReflectDescriptor())
	v := reflect.ValueOf(&pipeStruct{A: 1, B: "x"}).Elem()
	require.NoError(t, r.PushStruct(v))

	var names []string
	fi, ok := r.FirstProperty()
	for ok {
		names = append(names, fi.Name)
		fi, ok = r.NextProperty(fi)
	}
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestPipeVerifyMatchesDepth(t *testing.T) {
	env.StartUp(nil)
	defer env.ShutDown()

	w := property.NewPropertyWriter(property.NewReflectDescriptor())
	r := property.NewPropertyReader(property.NewReflectDescriptor())
	pipe := property.Pipe{Writer: w, Reader: r}
	require.NoError(t, pipe.Verify())

	v := reflect.ValueOf(&pipeStruct{}).Elem()
	require.NoError(t, w.PushStruct(v))
	assert.Error(t, pipe.Verify(), "writer is one level deeper than reader")

	require.NoError(t, r.PushStruct(v))
	assert.NoError(t, pipe.Verify())
}
