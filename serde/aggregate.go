package serde

import (
	"reflect"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/property"
	"github.com/brentfarrar/dcgo/reader"
)

// structHandler is the generic fallback for any struct type not covered
// by a more specific byType registration (entry.DelegateRef and friends,
// or one of the property.RefKind wrappers). It drives a
// property.PropertyWriter/PropertyReader walk in lock-step with
// StructRoot/StructEnd, exactly as spec §4.4 describes.
func structHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			if _, err := r.ReadStructRoot(); err != nil {
				return err
			}
			pw := property.NewPropertyWriter(ctx.Descriptor)
			if err := pw.PushStruct(v); err != nil {
				return err
			}
			for {
				tag, err := r.Peek()
				if err != nil {
					return err
				}
				if tag == entry.MapEnd {
					break
				}
				key, err := r.ReadName()
				if err != nil {
					return err
				}
				fi, err := pw.FindByName(key)
				if err != nil {
					return err
				}
				valueTag, err := r.Peek()
				if err != nil {
					return err
				}
				fieldVal := v.Field(fi.Index)
				datum, err := pw.WriteDataEntry(fieldVal, fi, valueTag)
				if err != nil {
					return err
				}
				if err := ctx.withField(fi, func() error {
					return ctx.deserializeValue(r, datum.Value)
				}); err != nil {
					return err
				}
			}
			if err := pw.PopStruct(); err != nil {
				return err
			}
			return r.ReadStructEnd()
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			t := v.Type()
			if err := w.WriteStructRoot(t.Name()); err != nil {
				return err
			}
			pr := property.NewPropertyReader(ctx.Descriptor)
			if err := pr.PushStruct(v); err != nil {
				return err
			}
			for fi, ok := pr.FirstProperty(); ok; fi, ok = pr.NextProperty(fi) {
				if err := w.WriteName(fi.Name); err != nil {
					return err
				}
				fieldVal := v.Field(fi.Index)
				if err := ctx.withField(fi, func() error {
					return ctx.serializeValue(w, fieldVal)
				}); err != nil {
					return err
				}
			}
			if err := pr.PopStruct(); err != nil {
				return err
			}
			return w.WriteStructEnd()
		},
	}
}

// sliceHandler handles both reflect.Slice and reflect.Array kinds as an
// ArrayRoot/ArrayEnd entry run. []byte is intercepted earlier by the
// byType Blob registration, so this never sees it.
func sliceHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			if err := r.ReadArrayRoot(); err != nil {
				return err
			}
			isSlice := v.Kind() == reflect.Slice
			if isSlice {
				v.Set(reflect.MakeSlice(v.Type(), 0, 0))
			}
			i := 0
			for {
				tag, err := r.Peek()
				if err != nil {
					return err
				}
				if tag == entry.ArrayEnd {
					break
				}
				if isSlice {
					elem := reflect.New(v.Type().Elem()).Elem()
					if err := ctx.deserializeValue(r, elem); err != nil {
						return err
					}
					v.Set(reflect.Append(v, elem))
				} else {
					if i >= v.Len() {
						return ctx.fail(diag.SkipOutOfRange)
					}
					if err := ctx.deserializeValue(r, v.Index(i)); err != nil {
						return err
					}
				}
				i++
			}
			return r.ReadArrayEnd()
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			if err := w.WriteArrayRoot(); err != nil {
				return err
			}
			for i := 0; i < v.Len(); i++ {
				if err := ctx.serializeValue(w, v.Index(i)); err != nil {
					return err
				}
			}
			return w.WriteArrayEnd()
		},
	}
}

// isSetType reports whether a map type represents a Set property (spec
// §4.3): its value type is a zero-field struct, so only keys carry data.
func isSetType(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

func setPredicate(ctx *Context, v reflect.Value) bool { return isSetType(v.Type()) }

func setHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			if err := r.ReadSetRoot(); err != nil {
				return err
			}
			v.Set(reflect.MakeMap(v.Type()))
			for {
				tag, err := r.Peek()
				if err != nil {
					return err
				}
				if tag == entry.ArrayEnd {
					break
				}
				key := reflect.New(v.Type().Key()).Elem()
				if err := ctx.deserializeValue(r, key); err != nil {
					return err
				}
				v.SetMapIndex(key, reflect.Zero(v.Type().Elem()))
			}
			return r.ReadSetEnd()
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			if err := w.WriteSetRoot(); err != nil {
				return err
			}
			for _, k := range v.MapKeys() {
				if err := ctx.serializeValue(w, k); err != nil {
					return err
				}
			}
			return w.WriteSetEnd()
		},
	}
}

// mapHandler covers string-keyed maps (JSON object keys are always
// strings — spec §6 JSON dialect).
func mapHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			if err := r.ReadMapRoot(); err != nil {
				return err
			}
			v.Set(reflect.MakeMap(v.Type()))
			for {
				tag, err := r.Peek()
				if err != nil {
					return err
				}
				if tag == entry.MapEnd {
					break
				}
				key, err := r.ReadName()
				if err != nil {
					return err
				}
				val := reflect.New(v.Type().Elem()).Elem()
				if err := ctx.deserializeValue(r, val); err != nil {
					return err
				}
				v.SetMapIndex(reflect.ValueOf(key).Convert(v.Type().Key()), val)
			}
			return r.ReadMapEnd()
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			if err := w.WriteMapRoot(); err != nil {
				return err
			}
			iter := v.MapRange()
			for iter.Next() {
				if err := w.WriteName(iter.Key().String()); err != nil {
					return err
				}
				if err := ctx.serializeValue(w, iter.Value()); err != nil {
					return err
				}
			}
			return w.WriteMapEnd()
		},
	}
}

// pointerHandler realizes "instanced sub-object" semantics (spec §4.3's
// is_sub_object_property / §4.4): a nil pointer round-trips as Nil; a
// non-nil one is serialized inline as whatever its pointee dispatches to.
func pointerHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			tag, err := r.Peek()
			if err != nil {
				return err
			}
			if tag == entry.Nil {
				if err := r.ReadNil(); err != nil {
					return err
				}
				v.Set(reflect.Zero(v.Type()))
				return nil
			}
			instance := reflect.New(v.Type().Elem())
			ctx.Refs.NewID(instance.Elem())
			if err := ctx.deserializeValue(r, instance.Elem()); err != nil {
				return err
			}
			v.Set(instance)
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			if v.IsNil() {
				return w.WriteNil()
			}
			return ctx.serializeValue(w, v.Elem())
		},
	}
}
