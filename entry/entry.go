// Package entry defines the closed token alphabet exchanged between every
// Reader and every Writer in the engine.
package entry

import "fmt"

// Tag is one member of the closed entry alphabet. It is the single ABI
// between a Reader and a Writer: no component outside this package is
// allowed to invent a new tag.
type Tag int

const (
	None Tag = iota
	Nil
	Bool
	Name
	String
	Text
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float
	Double
	Enum
	StructRoot
	StructEnd
	ClassRoot
	ClassEnd
	MapRoot
	MapEnd
	ArrayRoot
	ArrayEnd
	SetRoot
	SetEnd
	ObjectReference
	ClassReference
	WeakObjectReference
	LazyObjectReference
	SoftObjectReference
	SoftClassReference
	InterfaceReference
	Delegate
	MulticastInlineDelegate
	MulticastSparseDelegate
	FieldPath
	Blob
	Ended

	numTags
)

var tagStrings = [numTags]string{
	"None", "Nil", "Bool", "Name", "String", "Text",
	"Int8", "Int16", "Int32", "Int64",
	"UInt8", "UInt16", "UInt32", "UInt64",
	"Float", "Double", "Enum",
	"StructRoot", "StructEnd", "ClassRoot", "ClassEnd",
	"MapRoot", "MapEnd", "ArrayRoot", "ArrayEnd", "SetRoot", "SetEnd",
	"ObjectReference", "ClassReference", "WeakObjectReference",
	"LazyObjectReference", "SoftObjectReference", "SoftClassReference",
	"InterfaceReference",
	"Delegate", "MulticastInlineDelegate", "MulticastSparseDelegate",
	"FieldPath", "Blob", "Ended",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= int(numTags) {
		return "<unknown-entry>"
	}
	return tagStrings[t]
}

// IsNumeric reports whether a tag names one of the fixed-width numeric
// entries (used by coercion rules in jsontext.Reader.Coercion).
func (t Tag) IsNumeric() bool {
	switch t {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64, Float, Double:
		return true
	default:
		return false
	}
}

// IsReference reports whether a tag is one of the object-identity kinds
// that the putback adapter refuses to satisfy from its look-ahead stack.
func (t Tag) IsReference() bool {
	switch t {
	case ObjectReference, ClassReference, WeakObjectReference, LazyObjectReference,
		SoftObjectReference, SoftClassReference, InterfaceReference:
		return true
	default:
		return false
	}
}

// IsStructural reports whether a tag is a root/end container marker
// (Struct/Class/Set), which putback also refuses.
func (t Tag) IsStructural() bool {
	switch t {
	case StructRoot, StructEnd, ClassRoot, ClassEnd, SetRoot, SetEnd:
		return true
	default:
		return false
	}
}

// Location is a 1-indexed line/column position in a source view.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span is a non-owning reference into a source buffer: (begin, num) byte
// offsets. It does not carry the buffer itself; pair it with a
// sourceview.View to render it.
type Span struct {
	Begin int
	Num   int
}

func (s Span) End() int { return s.Begin + s.Num }

// DelegateRef, MulticastRef and FieldPath are opaque payload shapes for
// entries the core carries through without interpreting (delegate targets
// are host-specific, same as object identity).
type DelegateRef struct {
	Object string
	Method string
}

type MulticastRef struct {
	Bindings []DelegateRef
}

type FieldPathRef struct {
	Segments []string
}

// Value is a concrete instance of the alphabet: a Tag plus whatever
// payload that tag carries. Only one of the payload fields is meaningful
// for a given Tag; callers read the field matching Tag.
type Value struct {
	Tag Tag

	Bool   bool
	Name   string
	Str    string
	Int    int64
	UInt   uint64
	Float  float64
	Blob   []byte
	Ref    string // uuid string for *Reference tags
	Deleg  DelegateRef
	Multi  MulticastRef
	Field  FieldPathRef
}

func (v Value) String() string {
	switch v.Tag {
	case Bool:
		return fmt.Sprintf("Bool(%v)", v.Bool)
	case Name, String, Text:
		return fmt.Sprintf("%s(%q)", v.Tag, v.Str)
	case Int8, Int16, Int32, Int64:
		return fmt.Sprintf("%s(%d)", v.Tag, v.Int)
	case UInt8, UInt16, UInt32, UInt64:
		return fmt.Sprintf("%s(%d)", v.Tag, v.UInt)
	case Float, Double:
		return fmt.Sprintf("%s(%v)", v.Tag, v.Float)
	default:
		return v.Tag.String()
	}
}
