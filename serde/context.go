// Package serde implements the handler-dispatch Deserializer/Serializer
// from spec §4.3: three registries (by exact type, by reflect.Kind, and
// an ordered predicate list), dispatched against a Context state machine,
// driving a property.PropertyWriter/PropertyReader walk of reflected
// memory in lock-step with a reader.Reader or reader.Writer entry stream.
package serde

import (
	"reflect"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/property"
	"github.com/brentfarrar/dcgo/reader"
)

// State is the four-state machine from spec §4.3.
type State int

const (
	Uninitialized State = iota
	Ready
	InProgress
	Ended
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	case InProgress:
		return "InProgress"
	case Ended:
		return "Ended"
	default:
		return "?"
	}
}

// Handler is a late-bound invocable that moves one value between
// reflected memory and the entry stream, in whichever direction the
// active Context is running. An unbound Handler slot surfaces as
// diag.StaleDelegate when dispatched.
type Handler struct {
	Deserialize func(ctx *Context, r reader.Reader, v reflect.Value) error
	Serialize   func(ctx *Context, w reader.Writer, v reflect.Value) error
}

func (h Handler) bound() bool { return h.Deserialize != nil && h.Serialize != nil }

// Predicate decides whether its paired Handler should run for v, ahead
// of any direct type/kind lookup (spec §4.3 predicate-before-builtin
// override rule).
type Predicate func(ctx *Context, v reflect.Value) bool

type predicateEntry struct {
	name      string
	predicate Predicate
	handler   Handler
}

// Context is the Deserializer/Serializer registry plus its state
// machine. The zero value is not usable; construct with NewContext.
type Context struct {
	state State

	Descriptor property.TypeDescriptor
	Refs       *property.ReferenceTable

	byType     map[reflect.Type]Handler
	byKind     map[reflect.Kind]Handler
	predicates []predicateEntry

	// curField is the FieldInfo of the struct field currently being
	// dispatched, if any — the Go stand-in for spec §4.3's "context with
	// a current FieldVariant" that predicates inspect (e.g.
	// EnumByNamePredicate checks curField.IsEnum).
	curField   property.FieldInfo
	hasCurField bool
}

// withField sets curField for the duration of fn, restoring whatever was
// there before fn returns (nested struct dispatch recurses through this).
func (c *Context) withField(fi property.FieldInfo, fn func() error) error {
	prevField, prevHas := c.curField, c.hasCurField
	c.curField, c.hasCurField = fi, true
	defer func() { c.curField, c.hasCurField = prevField, prevHas }()
	return fn()
}

// NewContext builds an empty registry with no built-ins registered; most
// callers want NewDefaultContext instead.
func NewContext(desc property.TypeDescriptor) *Context {
	return &Context{
		state:      Ready,
		Descriptor: desc,
		Refs:       property.NewReferenceTable(),
		byType:     make(map[reflect.Type]Handler),
		byKind:     make(map[reflect.Kind]Handler),
	}
}

func (c *Context) RegisterType(t reflect.Type, h Handler) { c.byType[t] = h }
func (c *Context) RegisterKind(k reflect.Kind, h Handler) { c.byKind[k] = h }

// RegisterPredicate appends to the ordered predicate list; predicates
// registered earlier take priority (spec §4.3 dispatch order).
func (c *Context) RegisterPredicate(name string, p Predicate, h Handler) {
	c.predicates = append(c.predicates, predicateEntry{name: name, predicate: p, handler: h})
}

// RemovePredicate drops a predicate by name — used by callers that want
// to reproduce spec §8 scenario 5's NoMatchingHandler by un-registering
// EnumByNamePredicate from a custom Context.
func (c *Context) RemovePredicate(name string) {
	out := c.predicates[:0]
	for _, p := range c.predicates {
		if p.name != name {
			out = append(out, p)
		}
	}
	c.predicates = out
}

func (c *Context) fail(code diag.Code, args ...diag.Arg) error {
	return env.Current().Diag(code).With(args...)
}

// dispatch resolves the handler for v per spec §4.3's three-tier order:
// predicates, then exact type, then reflect.Kind.
func (c *Context) dispatch(v reflect.Value) (Handler, error) {
	for _, p := range c.predicates {
		if p.predicate(c, v) {
			if !p.handler.bound() {
				return Handler{}, c.fail(diag.StaleDelegate)
			}
			return p.handler, nil
		}
	}
	t := v.Type()
	// A `dc:",enum"` field is served only by a predicate handler: with no
	// predicate matching it, it has no handler.
	if c.hasCurField && c.curField.IsEnum && c.curField.Type == t {
		return Handler{}, c.fail(diag.NoMatchingHandler, diag.Str(c.curField.Name), diag.Str("Enum"))
	}
	if h, ok := c.byType[t]; ok {
		if !h.bound() {
			return Handler{}, c.fail(diag.StaleDelegate)
		}
		return h, nil
	}
	if h, ok := c.byKind[t.Kind()]; ok {
		if !h.bound() {
			return Handler{}, c.fail(diag.StaleDelegate)
		}
		return h, nil
	}
	return Handler{}, c.fail(diag.NoMatchingHandler, diag.Str(c.Descriptor.FormatPropertyTypeName(t)), diag.Str(t.Kind().String()))
}

// enter validates and advances the state machine for one dispatch call,
// returning a func to run on scope exit (spec §4.3: Ready -> InProgress
// -> Ended on the outermost call, InProgress stays InProgress for
// nested/re-entrant calls from handlers). A Context that has reached
// Ended rejects further calls with Unreachable, so each Context serves a
// single outermost Deserialize or Serialize.
func (c *Context) enter() (func(), error) {
	switch c.state {
	case Uninitialized:
		return nil, c.fail(diag.NotPrepared)
	case Ready:
		c.state = InProgress
		return func() { c.state = Ended }, nil
	case InProgress:
		return func() {}, nil
	default:
		return nil, c.fail(diag.Unreachable)
	}
}

// Deserialize populates v (must be a pointer) by reading from r,
// dispatching through the registries.
func (c *Context) Deserialize(r reader.Reader, v reflect.Value) error {
	exit, err := c.enter()
	if err != nil {
		return err
	}
	defer exit()
	if v.Kind() != reflect.Ptr {
		return c.fail(diag.PropertyMismatch, diag.Str("pointer"), diag.Str(v.Kind().String()))
	}
	h, err := c.dispatch(v.Elem())
	if err != nil {
		amend(r, nil, err)
		return err
	}
	if err := h.Deserialize(c, r, v.Elem()); err != nil {
		amend(r, nil, err)
		return err
	}
	return nil
}

// Serialize writes v to w, dispatching through the registries.
func (c *Context) Serialize(w reader.Writer, v reflect.Value) error {
	exit, err := c.enter()
	if err != nil {
		return err
	}
	defer exit()
	h, err := c.dispatch(v)
	if err != nil {
		amend(nil, w, err)
		return err
	}
	if err := h.Serialize(c, w, v); err != nil {
		amend(nil, w, err)
		return err
	}
	return nil
}

// deserializeValue dispatches v without the pointer-root/state-machine
// bookkeeping Deserialize does — used by struct/slice/map/set/pointer
// handlers to recurse into a field or element they've already allocated.
func (c *Context) deserializeValue(r reader.Reader, v reflect.Value) error {
	h, err := c.dispatch(v)
	if err != nil {
		return err
	}
	return h.Deserialize(c, r, v)
}

func (c *Context) serializeValue(w reader.Writer, v reflect.Value) error {
	h, err := c.dispatch(v)
	if err != nil {
		return err
	}
	return h.Serialize(c, w, v)
}

// amend attaches reader/writer position to the top diagnostic on handler
// failure, per spec §4.3's closing sentence and §7's Amend contract.
func amend(r reader.Reader, w reader.Writer, cause error) {
	d := env.Current().LastDiag()
	if d == nil {
		return
	}
	readerPos, writerPos := "", ""
	if r != nil {
		readerPos = r.Position()
	}
	if w != nil {
		writerPos = w.Position()
	}
	d.Amend(readerPos, writerPos)
	_ = cause
}
