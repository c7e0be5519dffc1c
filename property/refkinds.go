package property

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/brentfarrar/dcgo/entry"
)

// RefKind is satisfied by every object-identity wrapper type below,
// letting serde dispatch all seven reference kinds through one handler
// keyed off the concrete Go type's EntryTag.
type RefKind interface {
	EntryTag() entry.Tag
	ID() uuid.UUID
	SetID(uuid.UUID)
}

type refBase struct{ id uuid.UUID }

func (r refBase) ID() uuid.UUID     { return r.id }
func (r *refBase) SetID(id uuid.UUID) { r.id = id }

// ObjectReference, ClassReference, ... are Go stand-ins for the engine's
// object-identity entry kinds (spec §3's reference entries). A field
// typed as one of these round-trips as a uuid.UUID on the wire and is
// tracked by a ReferenceTable for forward-reference resolution.
type ObjectReference struct{ refBase }
type ClassReference struct{ refBase }
type WeakObjectReference struct{ refBase }
type LazyObjectReference struct{ refBase }
type SoftObjectReference struct{ refBase }
type SoftClassReference struct{ refBase }
type InterfaceReference struct{ refBase }

func (ObjectReference) EntryTag() entry.Tag      { return entry.ObjectReference }
func (ClassReference) EntryTag() entry.Tag       { return entry.ClassReference }
func (WeakObjectReference) EntryTag() entry.Tag  { return entry.WeakObjectReference }
func (LazyObjectReference) EntryTag() entry.Tag  { return entry.LazyObjectReference }
func (SoftObjectReference) EntryTag() entry.Tag  { return entry.SoftObjectReference }
func (SoftClassReference) EntryTag() entry.Tag   { return entry.SoftClassReference }
func (InterfaceReference) EntryTag() entry.Tag   { return entry.InterfaceReference }

// specialTypeTags lets KindToEntry recognize the handful of concrete Go
// types that carry their own fixed Entry tag regardless of reflect.Kind
// (the seven RefKind wrappers, plus the delegate/multicast/field-path
// payload shapes from package entry) instead of falling through to the
// generic struct-kind mapping.
var specialTypeTags = map[reflect.Type]entry.Tag{
	reflect.TypeOf(ObjectReference{}):      entry.ObjectReference,
	reflect.TypeOf(ClassReference{}):       entry.ClassReference,
	reflect.TypeOf(WeakObjectReference{}):  entry.WeakObjectReference,
	reflect.TypeOf(LazyObjectReference{}):  entry.LazyObjectReference,
	reflect.TypeOf(SoftObjectReference{}):  entry.SoftObjectReference,
	reflect.TypeOf(SoftClassReference{}):   entry.SoftClassReference,
	reflect.TypeOf(InterfaceReference{}):   entry.InterfaceReference,
	reflect.TypeOf(entry.DelegateRef{}):    entry.Delegate,
	reflect.TypeOf(entry.MulticastRef{}):   entry.MulticastInlineDelegate,
	reflect.TypeOf(entry.FieldPathRef{}):   entry.FieldPath,
}
