// Package reader defines the shared Reader contract every concrete reader
// (jsontext.Reader, putback.Reader) implements, so serde and property can
// work against any of them interchangeably.
package reader

import "github.com/brentfarrar/dcgo/entry"

// Reader is the pull-parser contract from spec §4.1: Peek returns the
// next entry's tag without consuming it, Read consumes it and returns
// the payload, and Coercion reports whether the value currently peeked
// can be read out as a different target tag (e.g. a JSON number read as
// a string).
type Reader interface {
	// Peek returns the tag of the next entry without consuming it.
	Peek() (entry.Tag, error)

	// ReadNil, ReadBool, ... consume the next entry, asserting it
	// matches the named kind, and return its payload.
	ReadNil() error
	ReadBool() (bool, error)
	ReadName() (string, error)
	ReadString() (string, error)
	ReadText() (string, error)
	ReadInt(bits int) (int64, error)
	ReadUint(bits int) (uint64, error)
	ReadFloat() (float32, error)
	ReadDouble() (float64, error)
	ReadEnum() (int64, string, error)
	ReadBlob() ([]byte, error)
	ReadReference(tag entry.Tag) (string, error)
	ReadDelegate() (entry.DelegateRef, error)
	ReadMulticastDelegate(tag entry.Tag) (entry.MulticastRef, error)
	ReadFieldPath() (entry.FieldPathRef, error)

	ReadMapRoot() error
	ReadMapEnd() error
	ReadArrayRoot() error
	ReadArrayEnd() error
	ReadSetRoot() error
	ReadSetEnd() error
	ReadStructRoot() (string, error)
	ReadStructEnd() error
	ReadClassRoot() (string, error)
	ReadClassEnd() error

	// Coercion reports whether the entry currently peeked may be
	// satisfied by a read call for target instead of its natural tag.
	Coercion(target entry.Tag) bool

	// Position renders a human-readable cursor position, used when
	// amending diagnostics (spec §7).
	Position() string
}
