// Package putback implements the Putback Reader adapter from spec §4.2: a
// thin wrapper around any reader.Reader holding a small LIFO of
// pre-decoded entry.Value look-ahead, used by handlers that must peek
// past an object key before choosing which value handler to run.
package putback

import (
	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/reader"
)

// Reader wraps an underlying reader.Reader with a putback stack.
type Reader struct {
	under reader.Reader
	stack []entry.Value
}

func New(under reader.Reader) *Reader {
	return &Reader{under: under}
}

// Putback pushes v onto the look-ahead stack, data-type-only (no
// payload) when v.Tag is a container root/end marker.
func (r *Reader) Putback(v entry.Value) {
	r.stack = append(r.stack, v)
}

func (r *Reader) top() (entry.Value, bool) {
	if len(r.stack) == 0 {
		return entry.Value{}, false
	}
	return r.stack[len(r.stack)-1], true
}

func (r *Reader) pop() entry.Value {
	v := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return v
}

// Peek returns the stack top's tag if present, otherwise forwards to the
// underlying reader.
func (r *Reader) Peek() (entry.Tag, error) {
	if v, ok := r.top(); ok {
		return v.Tag, nil
	}
	return r.under.Peek()
}

func (r *Reader) fail(code diag.Code, args ...diag.Arg) error {
	return env.Current().Diag(code).With(args...)
}

// structural kinds may never be satisfied from the putback stack (spec
// §4.2): attempting to do so fails with CantUsePutbackValue.
func (r *Reader) rejectStructural(tag entry.Tag) error {
	if v, ok := r.top(); ok && (v.Tag.IsStructural() || v.Tag.IsReference() || v.Tag == entry.Blob) {
		return r.fail(diag.CantUsePutbackValue, diag.Str(tag.String()))
	}
	return nil
}

func (r *Reader) ReadNil() error {
	if err := r.rejectStructural(entry.Nil); err != nil {
		return err
	}
	if _, ok := r.top(); ok {
		r.pop()
		return nil
	}
	return r.under.ReadNil()
}

func (r *Reader) ReadBool() (bool, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Bool, nil
	}
	return r.under.ReadBool()
}

func (r *Reader) ReadName() (string, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Str, nil
	}
	return r.under.ReadName()
}

func (r *Reader) ReadString() (string, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Str, nil
	}
	return r.under.ReadString()
}

func (r *Reader) ReadText() (string, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Str, nil
	}
	return r.under.ReadText()
}

func (r *Reader) ReadInt(bits int) (int64, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Int, nil
	}
	return r.under.ReadInt(bits)
}

func (r *Reader) ReadUint(bits int) (uint64, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.UInt, nil
	}
	return r.under.ReadUint(bits)
}

func (r *Reader) ReadFloat() (float32, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return float32(v.Float), nil
	}
	return r.under.ReadFloat()
}

func (r *Reader) ReadDouble() (float64, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Float, nil
	}
	return r.under.ReadDouble()
}

func (r *Reader) ReadEnum() (int64, string, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Int, v.Name, nil
	}
	return r.under.ReadEnum()
}

func (r *Reader) ReadBlob() ([]byte, error) {
	if err := r.rejectStructural(entry.Blob); err != nil {
		return nil, err
	}
	return r.under.ReadBlob()
}

func (r *Reader) ReadReference(tag entry.Tag) (string, error) {
	if err := r.rejectStructural(tag); err != nil {
		return "", err
	}
	return r.under.ReadReference(tag)
}

func (r *Reader) ReadDelegate() (entry.DelegateRef, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Deleg, nil
	}
	return r.under.ReadDelegate()
}

func (r *Reader) ReadMulticastDelegate(tag entry.Tag) (entry.MulticastRef, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Multi, nil
	}
	return r.under.ReadMulticastDelegate(tag)
}

func (r *Reader) ReadFieldPath() (entry.FieldPathRef, error) {
	if v, ok := r.top(); ok {
		r.pop()
		return v.Field, nil
	}
	return r.under.ReadFieldPath()
}

// Map/Array root/end accept data-type-only putbacks (no payload to
// replay, just the tag), so these simply pop and discard.
func (r *Reader) ReadMapRoot() error {
	if _, ok := r.top(); ok {
		r.pop()
		return nil
	}
	return r.under.ReadMapRoot()
}
func (r *Reader) ReadMapEnd() error {
	if _, ok := r.top(); ok {
		r.pop()
		return nil
	}
	return r.under.ReadMapEnd()
}
func (r *Reader) ReadArrayRoot() error {
	if _, ok := r.top(); ok {
		r.pop()
		return nil
	}
	return r.under.ReadArrayRoot()
}
func (r *Reader) ReadArrayEnd() error {
	if _, ok := r.top(); ok {
		r.pop()
		return nil
	}
	return r.under.ReadArrayEnd()
}

// Set/Struct/Class roots and ends are structural and may never come from
// putback.
func (r *Reader) ReadSetRoot() error {
	if err := r.rejectStructural(entry.SetRoot); err != nil {
		return err
	}
	return r.under.ReadSetRoot()
}
func (r *Reader) ReadSetEnd() error {
	if err := r.rejectStructural(entry.SetEnd); err != nil {
		return err
	}
	return r.under.ReadSetEnd()
}
func (r *Reader) ReadStructRoot() (string, error) {
	if err := r.rejectStructural(entry.StructRoot); err != nil {
		return "", err
	}
	return r.under.ReadStructRoot()
}
func (r *Reader) ReadStructEnd() error {
	if err := r.rejectStructural(entry.StructEnd); err != nil {
		return err
	}
	return r.under.ReadStructEnd()
}
func (r *Reader) ReadClassRoot() (string, error) {
	if err := r.rejectStructural(entry.ClassRoot); err != nil {
		return "", err
	}
	return r.under.ReadClassRoot()
}
func (r *Reader) ReadClassEnd() error {
	if err := r.rejectStructural(entry.ClassEnd); err != nil {
		return err
	}
	return r.under.ReadClassEnd()
}

// Coercion returns false whenever the stack is non-empty (spec §4.2).
func (r *Reader) Coercion(target entry.Tag) bool {
	if len(r.stack) > 0 {
		return false
	}
	return r.under.Coercion(target)
}

func (r *Reader) Position() string { return r.under.Position() }

var _ reader.Reader = (*Reader)(nil)
