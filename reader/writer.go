package reader

import "github.com/brentfarrar/dcgo/entry"

// Writer is the mirror of Reader: each Write<Kind> call emits one entry
// of the named kind, in whatever concrete format the writer targets
// (jsontext.Writer for JSON; a MsgPack writer would satisfy the same
// contract, see spec §1 scope notes on the MsgPack category).
type Writer interface {
	WriteNil() error
	WriteBool(v bool) error
	WriteName(v string) error
	WriteString(v string) error
	WriteText(v string) error
	WriteInt(bits int, v int64) error
	WriteUint(bits int, v uint64) error
	WriteFloat(v float32) error
	WriteDouble(v float64) error
	WriteEnum(numeric int64, name string) error
	WriteBlob(v []byte) error
	WriteReference(tag entry.Tag, v string) error
	WriteDelegate(v entry.DelegateRef) error
	WriteMulticastDelegate(tag entry.Tag, v entry.MulticastRef) error
	WriteFieldPath(v entry.FieldPathRef) error

	WriteMapRoot() error
	WriteMapEnd() error
	WriteArrayRoot() error
	WriteArrayEnd() error
	WriteSetRoot() error
	WriteSetEnd() error
	WriteStructRoot(name string) error
	WriteStructEnd() error
	WriteClassRoot(name string) error
	WriteClassEnd() error

	Position() string
}
