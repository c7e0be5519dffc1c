package serde

import (
	"reflect"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/reader"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// AnyStructHandler implements the dynamic any-struct dispatch extension:
// an `any`-typed field is resolved at
// decode time to a generic map[string]any / []any / scalar tree rather
// than a statically known Go type, the same way a JSON decoder with no
// target schema would behave. Registered by default against
// reflect.Interface so any bare `any` field in a struct gets this
// behavior automatically.
func AnyStructHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			tag, err := r.Peek()
			if err != nil {
				return err
			}
			switch tag {
			case entry.Nil:
				if err := r.ReadNil(); err != nil {
					return err
				}
				v.Set(reflect.Zero(v.Type()))
				return nil
			case entry.Bool:
				b, err := r.ReadBool()
				if err != nil {
					return err
				}
				v.Set(reflect.ValueOf(b))
				return nil
			case entry.Double:
				f, err := r.ReadDouble()
				if err != nil {
					return err
				}
				v.Set(reflect.ValueOf(f))
				return nil
			case entry.String, entry.Name, entry.Text:
				s, err := r.ReadString()
				if err != nil {
					return err
				}
				v.Set(reflect.ValueOf(s))
				return nil
			case entry.MapRoot:
				if err := r.ReadMapRoot(); err != nil {
					return err
				}
				m := map[string]any{}
				for {
					next, err := r.Peek()
					if err != nil {
						return err
					}
					if next == entry.MapEnd {
						break
					}
					key, err := r.ReadName()
					if err != nil {
						return err
					}
					elem := reflect.New(anyType).Elem()
					if err := ctx.deserializeValue(r, elem); err != nil {
						return err
					}
					m[key] = elem.Interface()
				}
				if err := r.ReadMapEnd(); err != nil {
					return err
				}
				v.Set(reflect.ValueOf(m))
				return nil
			case entry.ArrayRoot:
				if err := r.ReadArrayRoot(); err != nil {
					return err
				}
				arr := []any{}
				for {
					next, err := r.Peek()
					if err != nil {
						return err
					}
					if next == entry.ArrayEnd {
						break
					}
					elem := reflect.New(anyType).Elem()
					if err := ctx.deserializeValue(r, elem); err != nil {
						return err
					}
					arr = append(arr, elem.Interface())
				}
				if err := r.ReadArrayEnd(); err != nil {
					return err
				}
				v.Set(reflect.ValueOf(arr))
				return nil
			default:
				return ctx.fail(diag.NoMatchingHandler, diag.Str("any"), diag.Str(tag.String()))
			}
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			elemVal := v.Elem()
			if !elemVal.IsValid() {
				return w.WriteNil()
			}
			switch elemVal.Kind() {
			case reflect.Bool:
				return w.WriteBool(elemVal.Bool())
			case reflect.Float64, reflect.Float32:
				return w.WriteDouble(elemVal.Float())
			case reflect.String:
				return w.WriteString(elemVal.String())
			case reflect.Map:
				if err := w.WriteMapRoot(); err != nil {
					return err
				}
				iter := elemVal.MapRange()
				for iter.Next() {
					if err := w.WriteName(iter.Key().String()); err != nil {
						return err
					}
					if err := ctx.serializeValue(w, iter.Value()); err != nil {
						return err
					}
				}
				return w.WriteMapEnd()
			case reflect.Slice, reflect.Array:
				if err := w.WriteArrayRoot(); err != nil {
					return err
				}
				for i := 0; i < elemVal.Len(); i++ {
					if err := ctx.serializeValue(w, elemVal.Index(i)); err != nil {
						return err
					}
				}
				return w.WriteArrayEnd()
			default:
				return ctx.fail(diag.NoMatchingHandler, diag.Str("any"), diag.Str(elemVal.Kind().String()))
			}
		},
	}
}
