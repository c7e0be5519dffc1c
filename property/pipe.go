package property

import (
	"reflect"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/env"
)

// Datum is the (type_descriptor, raw_pointer) pair from spec §3: the
// currency at the reflection boundary. Here the "raw pointer" is a
// reflect.Value addressable enough to set.
type Datum struct {
	Descriptor TypeDescriptor
	Value      reflect.Value
}

type frame struct {
	typ   reflect.Type
	field FieldInfo
	inKey bool
}

// PropertyWriter drives reflected memory during deserialize: it walks a
// struct's effective properties in lock-step with the incoming entry
// stream, handing back a Datum for each field the caller is about to
// populate. Named "Writer" because it writes values into memory (spec
// §4.4's push_top_struct_property_state family).
type PropertyWriter struct {
	Descriptor TypeDescriptor
	stack      []frame
}

func NewPropertyWriter(d TypeDescriptor) *PropertyWriter {
	return &PropertyWriter{Descriptor: d}
}

func (w *PropertyWriter) fail(code diag.Code, args ...diag.Arg) error {
	return env.Current().Diag(code).With(args...)
}

// PushStruct enters v's struct scope (StructRoot seen on the wire).
func (w *PropertyWriter) PushStruct(v reflect.Value) error {
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return w.fail(diag.PropertyMismatch, diag.Str("struct"), diag.Str(t.Kind().String()))
	}
	w.stack = append(w.stack, frame{typ: t})
	return nil
}

// PopStruct exits the current struct scope (StructEnd seen on the wire).
func (w *PropertyWriter) PopStruct() error {
	if len(w.stack) == 0 {
		return w.fail(diag.Unreachable)
	}
	w.stack = w.stack[:len(w.stack)-1]
	return nil
}

// Depth reports current struct nesting, compared against a PropertyReader's
// Depth by Pipe.Verify to enforce spec §4.4's reader/writer nesting
// invariant.
func (w *PropertyWriter) Depth() int { return len(w.stack) }

// FindByName resolves an object key against the struct currently open,
// failing CantFindPropertyByName on a miss (spec §4.4).
func (w *PropertyWriter) FindByName(name string) (FieldInfo, error) {
	if len(w.stack) == 0 {
		return FieldInfo{}, w.fail(diag.Unreachable)
	}
	top := w.stack[len(w.stack)-1]
	fi, ok := w.Descriptor.FindEffectivePropertyByName(top.typ, name)
	if !ok {
		return FieldInfo{}, w.fail(diag.CantFindPropertyByName, diag.Str(name), diag.Str(w.Descriptor.FormatPropertyTypeName(top.typ)))
	}
	return fi, nil
}

// WriteDataEntry asserts fieldType maps to expected and returns the Datum
// addressing the destination field (spec §4.4 write_data_entry). Mismatch
// fails PropertyMismatch.
func (w *PropertyWriter) WriteDataEntry(dst reflect.Value, fi FieldInfo, expected entry.Tag) (Datum, error) {
	got := KindToEntry(fi.Type, fi.IsEnum)
	if got != expected && !coercible(got, expected) {
		return Datum{}, w.fail(diag.PropertyMismatch, diag.Any(expected), diag.Any(got))
	}
	return Datum{Descriptor: w.Descriptor, Value: dst}, nil
}

// PropertyReader is the serialize-side mirror of PropertyWriter: it reads
// values back out of reflected memory field by field while driving the
// same StructRoot/StructEnd bookkeeping.
type PropertyReader struct {
	Descriptor TypeDescriptor
	stack      []frame
}

func NewPropertyReader(d TypeDescriptor) *PropertyReader {
	return &PropertyReader{Descriptor: d}
}

func (r *PropertyReader) fail(code diag.Code, args ...diag.Arg) error {
	return env.Current().Diag(code).With(args...)
}

func (r *PropertyReader) PushStruct(v reflect.Value) error {
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return r.fail(diag.PropertyMismatch, diag.Str("struct"), diag.Str(t.Kind().String()))
	}
	r.stack = append(r.stack, frame{typ: t})
	return nil
}

func (r *PropertyReader) PopStruct() error {
	if len(r.stack) == 0 {
		return r.fail(diag.Unreachable)
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

func (r *PropertyReader) Depth() int { return len(r.stack) }

// FirstProperty / NextProperty drive serialize-side field iteration.
func (r *PropertyReader) FirstProperty() (FieldInfo, bool) {
	top := r.stack[len(r.stack)-1]
	return r.Descriptor.FirstEffectiveProperty(top.typ)
}

func (r *PropertyReader) NextProperty(cur FieldInfo) (FieldInfo, bool) {
	top := r.stack[len(r.stack)-1]
	return r.Descriptor.NextEffectiveProperty(top.typ, cur)
}

// Pipe enforces spec §4.4's invariant: reader.nesting == writer.nesting
// at every step during deserialization. A caller bumps both sides as it
// descends/ascends sub-objects and calls Verify before leaving a scope.
type Pipe struct {
	Writer *PropertyWriter
	Reader *PropertyReader
}

func (p *Pipe) Verify() error {
	wd, rd := 0, 0
	if p.Writer != nil {
		wd = p.Writer.Depth()
	}
	if p.Reader != nil {
		rd = p.Reader.Depth()
	}
	if wd != rd {
		return env.Current().Diag(diag.PipeReadWriteMismatch).With(diag.Any(rd), diag.Any(wd))
	}
	return nil
}

// KindToEntry maps a Go reflect.Kind (plus the enum tag) to the Entry tag
// the property layer expects to see on the wire for it — the Go
// equivalent of the host's property_to_entry (spec §6).
func KindToEntry(t reflect.Type, isEnum bool) entry.Tag {
	if isEnum {
		return entry.Enum
	}
	if tag, ok := specialTypeTags[t]; ok {
		return tag
	}
	switch t.Kind() {
	case reflect.Bool:
		return entry.Bool
	case reflect.Int8:
		return entry.Int8
	case reflect.Int16:
		return entry.Int16
	case reflect.Int32:
		return entry.Int32
	case reflect.Int, reflect.Int64:
		return entry.Int64
	case reflect.Uint8:
		return entry.UInt8
	case reflect.Uint16:
		return entry.UInt16
	case reflect.Uint32:
		return entry.UInt32
	case reflect.Uint, reflect.Uint64:
		return entry.UInt64
	case reflect.Float32:
		return entry.Float
	case reflect.Float64:
		return entry.Double
	case reflect.String:
		return entry.String
	case reflect.Struct:
		return entry.StructRoot
	case reflect.Map:
		if t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0 {
			return entry.SetRoot
		}
		return entry.MapRoot
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return entry.Blob
		}
		return entry.ArrayRoot
	case reflect.Ptr, reflect.Interface:
		return entry.ClassRoot
	default:
		return entry.None
	}
}

// coercible mirrors Reader.Coercion at the property layer: a numeric
// field may be populated from any numeric entry, a string, name, text or
// enum field accepts any String, Name or Text entry, and the three opaque payload
// kinds (reference, delegate, field path) are recognized by the wire
// shape they actually round-trip as (a nullable string for references
// and delegates/field paths, an array of strings for a multicast).
func coercible(have, want entry.Tag) bool {
	if have.IsNumeric() && want.IsNumeric() {
		return true
	}
	if have.IsReference() && (want == entry.String || want == entry.Nil) {
		return true
	}
	switch have {
	case entry.Delegate, entry.FieldPath:
		return want == entry.String
	case entry.MulticastInlineDelegate, entry.MulticastSparseDelegate:
		return want == entry.ArrayRoot
	case entry.StructRoot:
		return want == entry.MapRoot
	case entry.SetRoot:
		return want == entry.ArrayRoot
	case entry.Blob:
		return want == entry.String
	case entry.ClassRoot:
		// interface/pointer fields are resolved dynamically (instanced
		// sub-object or any-typed dispatch) — any wire shape is valid,
		// the concrete handler sorts it out.
		return true
	}
	switch want {
	case entry.String, entry.Name, entry.Text:
		return have == entry.String || have == entry.Name || have == entry.Text || have == entry.Enum
	default:
		return false
	}
}
