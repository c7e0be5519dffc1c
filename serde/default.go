package serde

import (
	"reflect"

	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/property"
)

// NewDefaultContext builds a Context with every built-in handler from
// spec §4.3 registered: scalar kinds, string, []byte (Blob), slice/array
// (Array entries), map (Map entries), Set (map[T]struct{}), struct
// (recursive PropertyWriter/PropertyReader walk), pointer (instanced
// sub-object), interface (AnyStructHandler), the seven property.RefKind reference wrappers,
// and entry.DelegateRef/MulticastRef/FieldPathRef. EnumByNamePredicate is
// registered first so it can intercept any `dc:",enum"` field ahead of
// the generic kind handlers.
func NewDefaultContext(desc property.TypeDescriptor) *Context {
	ctx := NewContext(desc)

	ctx.RegisterPredicate(EnumByNamePredicateName, EnumByNamePredicate, enumHandler())
	ctx.RegisterPredicate("set", setPredicate, setHandler())

	ctx.RegisterKind(reflect.Bool, boolHandler())
	ctx.RegisterKind(reflect.Int8, intHandler(8))
	ctx.RegisterKind(reflect.Int16, intHandler(16))
	ctx.RegisterKind(reflect.Int32, intHandler(32))
	ctx.RegisterKind(reflect.Int, intHandler(64))
	ctx.RegisterKind(reflect.Int64, intHandler(64))
	ctx.RegisterKind(reflect.Uint8, uintHandler(8))
	ctx.RegisterKind(reflect.Uint16, uintHandler(16))
	ctx.RegisterKind(reflect.Uint32, uintHandler(32))
	ctx.RegisterKind(reflect.Uint, uintHandler(64))
	ctx.RegisterKind(reflect.Uint64, uintHandler(64))
	ctx.RegisterKind(reflect.Float32, float32Handler())
	ctx.RegisterKind(reflect.Float64, float64Handler())
	ctx.RegisterKind(reflect.String, stringHandler())
	ctx.RegisterKind(reflect.Struct, structHandler())
	ctx.RegisterKind(reflect.Slice, sliceHandler())
	ctx.RegisterKind(reflect.Array, sliceHandler())
	ctx.RegisterKind(reflect.Map, mapHandler())
	ctx.RegisterKind(reflect.Ptr, pointerHandler())
	ctx.RegisterKind(reflect.Interface, AnyStructHandler())

	ctx.RegisterType(reflect.TypeOf([]byte(nil)), blobHandler())
	ctx.RegisterType(reflect.TypeOf(entry.DelegateRef{}), delegateHandler())
	ctx.RegisterType(reflect.TypeOf(entry.MulticastRef{}), multicastHandler(entry.MulticastInlineDelegate))
	ctx.RegisterType(reflect.TypeOf(entry.FieldPathRef{}), fieldPathHandler())

	rh := refHandler()
	ctx.RegisterType(reflect.TypeOf(property.ObjectReference{}), rh)
	ctx.RegisterType(reflect.TypeOf(property.ClassReference{}), rh)
	ctx.RegisterType(reflect.TypeOf(property.WeakObjectReference{}), rh)
	ctx.RegisterType(reflect.TypeOf(property.LazyObjectReference{}), rh)
	ctx.RegisterType(reflect.TypeOf(property.SoftObjectReference{}), rh)
	ctx.RegisterType(reflect.TypeOf(property.SoftClassReference{}), rh)
	ctx.RegisterType(reflect.TypeOf(property.InterfaceReference{}), rh)

	return ctx
}
