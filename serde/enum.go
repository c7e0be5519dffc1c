package serde

import (
	"reflect"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/property"
	"github.com/brentfarrar/dcgo/reader"
)

// enumerOf returns v's addressable property.Enumer view, if it has one.
func enumerOf(v reflect.Value) (property.Enumer, bool) {
	if !v.CanAddr() {
		return nil, false
	}
	e, ok := v.Addr().Interface().(property.Enumer)
	return e, ok
}

// EnumByNamePredicate is the built-in predicate from spec §4.3 scenario
// 5: any field tagged `dc:",enum"` whose Go type implements
// property.Enumer is read/written by its symbolic case name rather than
// its underlying numeric value. Registered by default in
// NewDefaultContext; removing it (Context.RemovePredicate("enum-by-name"))
// reproduces the NoMatchingHandler failure the spec calls out for an
// enum-backed field with no handler.
const EnumByNamePredicateName = "enum-by-name"

func EnumByNamePredicate(ctx *Context, v reflect.Value) bool {
	if !ctx.hasCurField || !ctx.curField.IsEnum {
		return false
	}
	_, ok := enumerOf(v)
	return ok
}

func enumHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			_, name, err := r.ReadEnum()
			if err != nil {
				return err
			}
			e, _ := enumerOf(v)
			if err := e.SetEnumName(name); err != nil {
				return ctx.fail(diag.EnumMismatch, diag.Str(name), diag.Str(v.Type().String()))
			}
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			e, _ := enumerOf(v)
			return w.WriteEnum(0, e.EnumName())
		},
	}
}
