// Package dcgo is a reflection-driven, streaming data-interchange
// engine: it translates between textual documents and in-memory Go
// values whose shape is described by struct tags, through a typed token
// pipeline connecting a reader.Reader/reader.Writer to a handler-dispatch
// serde.Context.
package dcgo

import (
	"reflect"

	"github.com/brentfarrar/dcgo/property"
	"github.com/brentfarrar/dcgo/reader"
	"github.com/brentfarrar/dcgo/serde"
)

// Deserialize populates root (a pointer to a struct, map, slice, or any
// registered scalar type) by reading entries from r. It builds a
// default serde.Context internally; callers who need to customize
// handler registration (add a predicate, drop a built-in) should build
// their own *serde.Context and call ctx.Deserialize directly.
func Deserialize(root any, r reader.Reader) error {
	ctx := serde.NewDefaultContext(property.NewReflectDescriptor())
	return ctx.Deserialize(r, reflect.ValueOf(root))
}

// Serialize writes root to w using a default serde.Context.
func Serialize(root any, w reader.Writer) error {
	ctx := serde.NewDefaultContext(property.NewReflectDescriptor())
	v := reflect.ValueOf(root)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return ctx.Serialize(w, v)
}

// DeserializeWith and SerializeWith run against a caller-supplied
// *serde.Context, for callers who registered custom predicates/handlers.
func DeserializeWith(ctx *serde.Context, root any, r reader.Reader) error {
	return ctx.Deserialize(r, reflect.ValueOf(root))
}

func SerializeWith(ctx *serde.Context, root any, w reader.Writer) error {
	v := reflect.ValueOf(root)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return ctx.Serialize(w, v)
}
