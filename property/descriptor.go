// Package property is the Go realization of the opaque host reflection
// service named in spec §6: a TypeDescriptor abstracts field enumeration,
// struct identity, and instance layout so serde's handlers never touch
// reflect directly. ReflectDescriptor is the only implementation shipped
// here, built over reflect.Type and the `dc:"..."` struct tag.
package property

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldInfo describes one effective property: a reflected struct field
// plus whatever the `dc` tag says about it.
type FieldInfo struct {
	Name      string
	Index     int
	Type      reflect.Type
	IsEnum    bool
	SubObject bool // pointer/interface field holding an instanced sub-object
}

// TypeDescriptor is the reflection boundary from spec §6. Every method
// name mirrors the original host service 1:1.
type TypeDescriptor interface {
	IsEffectiveProperty(f reflect.StructField) bool
	FirstEffectiveProperty(t reflect.Type) (FieldInfo, bool)
	NextEffectiveProperty(t reflect.Type, cur FieldInfo) (FieldInfo, bool)
	FindEffectivePropertyByName(t reflect.Type, name string) (FieldInfo, bool)
	FindEffectivePropertyByOffset(t reflect.Type, offset int) (FieldInfo, bool)
	IsSubObjectProperty(f FieldInfo) bool
	IsUnsignedProperty(f FieldInfo) bool
	FormatPropertyTypeName(t reflect.Type) string
}

// ReflectDescriptor is the default TypeDescriptor, driven entirely by
// reflect.Type and the `dc` struct tag: `dc:"name"` renames a field,
// `dc:"-"` excludes it, `dc:",enum"` marks an integer field enum-backed.
type ReflectDescriptor struct{}

func NewReflectDescriptor() *ReflectDescriptor { return &ReflectDescriptor{} }

func parseTag(f reflect.StructField) (name string, enum bool, skip bool) {
	tag, ok := f.Tag.Lookup("dc")
	if !ok {
		return f.Name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return "", false, true
	}
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	for _, opt := range parts[1:] {
		if opt == "enum" {
			enum = true
		}
	}
	return name, enum, false
}

func (d *ReflectDescriptor) IsEffectiveProperty(f reflect.StructField) bool {
	if !f.IsExported() {
		return false
	}
	_, _, skip := parseTag(f)
	return !skip
}

func (d *ReflectDescriptor) fieldInfo(t reflect.Type, i int) (FieldInfo, bool) {
	f := t.Field(i)
	if !d.IsEffectiveProperty(f) {
		return FieldInfo{}, false
	}
	name, enum, _ := parseTag(f)
	kind := f.Type.Kind()
	sub := kind == reflect.Ptr || kind == reflect.Interface
	return FieldInfo{Name: name, Index: i, Type: f.Type, IsEnum: enum, SubObject: sub}, true
}

func (d *ReflectDescriptor) FirstEffectiveProperty(t reflect.Type) (FieldInfo, bool) {
	for i := 0; i < t.NumField(); i++ {
		if fi, ok := d.fieldInfo(t, i); ok {
			return fi, true
		}
	}
	return FieldInfo{}, false
}

func (d *ReflectDescriptor) NextEffectiveProperty(t reflect.Type, cur FieldInfo) (FieldInfo, bool) {
	for i := cur.Index + 1; i < t.NumField(); i++ {
		if fi, ok := d.fieldInfo(t, i); ok {
			return fi, true
		}
	}
	return FieldInfo{}, false
}

func (d *ReflectDescriptor) FindEffectivePropertyByName(t reflect.Type, name string) (FieldInfo, bool) {
	for i := 0; i < t.NumField(); i++ {
		fi, ok := d.fieldInfo(t, i)
		if ok && fi.Name == name {
			return fi, true
		}
	}
	return FieldInfo{}, false
}

func (d *ReflectDescriptor) FindEffectivePropertyByOffset(t reflect.Type, offset int) (FieldInfo, bool) {
	if offset < 0 || offset >= t.NumField() {
		return FieldInfo{}, false
	}
	return d.fieldInfo(t, offset)
}

func (d *ReflectDescriptor) IsSubObjectProperty(f FieldInfo) bool { return f.SubObject }

func (d *ReflectDescriptor) IsUnsignedProperty(f FieldInfo) bool {
	switch f.Type.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func (d *ReflectDescriptor) FormatPropertyTypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s.%s", t.PkgPath(), t.Name())
}

// Enumer is satisfied by an integer-backed named type that wants to
// serialize as its case name rather than its numeric value (spec §4.3's
// "enum-backed numeric property").
type Enumer interface {
	EnumName() string
	SetEnumName(name string) error
}

// AnyHandle pairs a reflect.Value with the TypeDescriptor that should
// interpret it. Nothing in this module constructs one: serde's
// AnyStructHandler decodes an `any`-typed field into a generic
// map/slice/scalar tree without it.
type AnyHandle struct {
	Value      reflect.Value
	Descriptor TypeDescriptor
}
