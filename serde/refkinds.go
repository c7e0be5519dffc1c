package serde

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/property"
	"github.com/brentfarrar/dcgo/reader"
)

// refKindOf returns v's addressable property.RefKind view, if it has one.
func refKindOf(v reflect.Value) (property.RefKind, bool) {
	if !v.CanAddr() {
		return nil, false
	}
	rk, ok := v.Addr().Interface().(property.RefKind)
	return rk, ok
}

// refHandler serves all seven object-identity wrapper types from
// property.RefKind with one Handler: the Go type's own EntryTag()
// supplies the wire tag, and the Go process has no live object graph to
// resolve into (spec §1 names the host's reflection/object graph as an
// out-of-scope external collaborator), so a reference simply round-trips
// its uuid identity.
func refHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			rk, ok := refKindOf(v)
			if !ok {
				return ctx.fail(diag.Unreachable)
			}
			s, err := r.ReadReference(rk.EntryTag())
			if err != nil {
				return err
			}
			if s == "" {
				rk.SetID(uuid.Nil)
				return nil
			}
			id, err := uuid.Parse(s)
			if err != nil {
				return ctx.fail(diag.PropertyMismatch, diag.Str("uuid"), diag.Str(s))
			}
			rk.SetID(id)
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			rk, ok := refKindOf(v)
			if !ok {
				return ctx.fail(diag.Unreachable)
			}
			id := rk.ID()
			s := ""
			if id != uuid.Nil {
				s = id.String()
			}
			return w.WriteReference(rk.EntryTag(), s)
		},
	}
}

func delegateHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			d, err := r.ReadDelegate()
			if err != nil {
				return err
			}
			v.Set(reflect.ValueOf(d))
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteDelegate(v.Interface().(entry.DelegateRef))
		},
	}
}

func multicastHandler(tag entry.Tag) Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			m, err := r.ReadMulticastDelegate(tag)
			if err != nil {
				return err
			}
			v.Set(reflect.ValueOf(m))
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteMulticastDelegate(tag, v.Interface().(entry.MulticastRef))
		},
	}
}

func fieldPathHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			f, err := r.ReadFieldPath()
			if err != nil {
				return err
			}
			v.Set(reflect.ValueOf(f))
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteFieldPath(v.Interface().(entry.FieldPathRef))
		},
	}
}
