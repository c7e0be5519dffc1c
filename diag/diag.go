// Package diag implements the structured error-code and diagnostic model:
// every fallible operation in the engine fails with exactly one
// Diagnostic, lazily amended with arguments and an optional Highlight.
package diag

import (
	"fmt"
	"strings"
)

// Category namespaces error ids so two subsystems can each own id 1
// without colliding.
type Category uint16

const (
	Common Category = iota
	ReadWrite
	JSON
	SerDe
	MsgPack

	numCategories
)

func (c Category) String() string {
	switch c {
	case Common:
		return "Common"
	case ReadWrite:
		return "ReadWrite"
	case JSON:
		return "JSON"
	case SerDe:
		return "SerDe"
	case MsgPack:
		return "MsgPack"
	default:
		return "Unknown"
	}
}

// Code is a (category, id) pair identifying one diagnostic message.
type Code struct {
	Category Category
	ID       uint16
}

func (c Code) String() string {
	return fmt.Sprintf("%s::%s", c.Category, messageFor(c).name)
}

type message struct {
	name   string
	format string
}

var registry = map[Code]message{}

func register(cat Category, id uint16, name, format string) Code {
	c := Code{Category: cat, ID: id}
	registry[c] = message{name: name, format: format}
	return c
}

func messageFor(c Code) message {
	if m, ok := registry[c]; ok {
		return m
	}
	return message{name: "Unknown", format: "unknown diagnostic"}
}

// Common category.
var (
	Unreachable     = register(Common, 1, "Unreachable", "hit an unreachable code path")
	PlaceHoldError  = register(Common, 2, "PlaceHoldError", "placeholder error: {0}")
	StaleDelegate   = register(Common, 3, "StaleDelegate", "handler delegate is unbound")
	NotInitialized  = register(Common, 4, "NotInitialized", "environment stack not initialized")
)

// ReadWrite category.
var (
	DataTypeMismatch     = register(ReadWrite, 1, "DataTypeMismatch", "expected entry {0}, got {1}")
	PropertyMismatch     = register(ReadWrite, 2, "PropertyMismatch", "property write mismatch: expected {0}, got {1}")
	NameMismatch         = register(ReadWrite, 3, "NameMismatch", "name mismatch: expected {0}, got {1}")
	EnumMismatch         = register(ReadWrite, 4, "EnumMismatch", "enum value {0} not found on {1}")
	BlobOverrun          = register(ReadWrite, 5, "BlobOverrun", "blob read overran buffer")
	CantUsePutbackValue  = register(ReadWrite, 6, "CantUsePutbackValue", "entry {0} cannot be satisfied from putback")
	PipeReadWriteMismatch = register(ReadWrite, 7, "PipeReadWriteMismatch", "reader/writer nesting mismatch: {0} vs {1}")
	SkipOutOfRange       = register(ReadWrite, 8, "SkipOutOfRange", "skip attempted past Ended")
	ReadTypeMismatch     = register(ReadWrite, 9, "ReadTypeMismatch", "expected entry {0}, got {1}")
)

// JSON category.
var (
	UnclosedStringLiteral        = register(JSON, 1, "UnclosedStringLiteral", "unclosed string literal")
	InvalidControlCharInString   = register(JSON, 2, "InvalidControlCharInString", "invalid control character in string")
	InvalidStringEscaping        = register(JSON, 3, "InvalidStringEscaping", "invalid escape sequence in string")
	UnclosedBlockComment         = register(JSON, 4, "UnclosedBlockComment", "unclosed block comment")
	ExpectWordButNotFound        = register(JSON, 5, "ExpectWordButNotFound", "expected literal {0}")
	ExpectWordButEOF             = register(JSON, 6, "ExpectWordButEOF", "unexpected EOF while matching literal {0}")
	UnexpectedChar               = register(JSON, 7, "UnexpectedChar", "unexpected character {0}")
	UnexpectedToken              = register(JSON, 8, "UnexpectedToken", "unexpected token")
	ExpectComma                  = register(JSON, 9, "ExpectComma", "expected , or closing bracket")
	DuplicatedKey                = register(JSON, 10, "DuplicatedKey", "duplicated object key")
	KeyMustBeString              = register(JSON, 11, "KeyMustBeString", "object key must be a string")
	ObjectKeyTooLong             = register(JSON, 12, "ObjectKeyTooLong", "object key exceeds max length")
	ReadUnsignedWithNegativeNumber = register(JSON, 13, "ReadUnsignedWithNegativeNumber", "negative number read as unsigned")
	ParseIntegerFailed           = register(JSON, 14, "ParseIntegerFailed", "failed to parse integer")
	ExpectStateInProgress        = register(JSON, 15, "ExpectStateInProgress", "reader not in progress, state={0}")
	ExpectStateUninitializedOrFinished = register(JSON, 16, "ExpectStateUninitializedOrFinished", "reader state={0}, expected Uninitialized or FinishedString")
	UnexpectedTrailingToken      = register(JSON, 17, "UnexpectedTrailingToken", "unexpected trailing token {0}")
)

// SerDe category.
var (
	NoMatchingHandler       = register(SerDe, 1, "NoMatchingHandler", "no handler registered for {0} ({1})")
	NotPrepared             = register(SerDe, 2, "NotPrepared", "context not prepared")
	ExpectMetaType          = register(SerDe, 3, "ExpectMetaType", "expected meta type {0}")
	ObjectByNameNotFound    = register(SerDe, 4, "ObjectByNameNotFound", "no object registered under name {0}")
	StructNotFound          = register(SerDe, 5, "StructNotFound", "struct type {0} not found")
	DataEntryMismatch       = register(SerDe, 6, "DataEntryMismatch", "data entry mismatch: {0}")
	CantFindPropertyByName  = register(SerDe, 7, "CantFindPropertyByName", "no field named {0} on {1}")
	UnresolvedReference     = register(SerDe, 8, "UnresolvedReference", "reference {0} never resolved")
)

// Arg is one lazily-appended diagnostic argument.
type Arg struct {
	str    string
	isStr  bool
}

func Str(s string) Arg  { return Arg{str: s, isStr: true} }
func Any(v any) Arg      { return Arg{str: fmt.Sprint(v)} }

// Highlight carries a rendered source span with optional file context.
type Highlight struct {
	Rendered string
	File     string
}

func (h Highlight) String() string {
	if h.File == "" {
		return h.Rendered
	}
	return h.File + "\n" + h.Rendered
}

// Diagnostic is an error code plus an ordered list of lazily-appended
// arguments. It satisfies the error interface so it can be returned and
// wrapped like any other Go error.
type Diagnostic struct {
	Code      Code
	Args      []Arg
	Highlight *Highlight

	// ReaderPos/WriterPos are filled in by serde.Deserialize/Serialize
	// when amending the top diagnostic on handler failure (spec §7).
	ReaderPos string
	WriterPos string
}

// New starts a Diagnostic for the given code. Use With to append
// arguments and WithHighlight to attach a source span.
func New(code Code) *Diagnostic {
	return &Diagnostic{Code: code}
}

func (d *Diagnostic) With(args ...Arg) *Diagnostic {
	d.Args = append(d.Args, args...)
	return d
}

func (d *Diagnostic) WithHighlight(h Highlight) *Diagnostic {
	d.Highlight = &h
	return d
}

// Amend attaches reader/writer position strings without replacing the
// original diagnostic, matching the "amend don't replace" contract in
// spec §7.
func (d *Diagnostic) Amend(readerPos, writerPos string) {
	d.ReaderPos = readerPos
	d.WriterPos = writerPos
}

func (d *Diagnostic) Error() string {
	m := messageFor(d.Code)
	msg := m.format
	for i, a := range d.Args {
		placeholder := fmt.Sprintf("{%d}", i)
		msg = strings.Replace(msg, placeholder, a.str, 1)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Code, msg)
	if d.Highlight != nil {
		fmt.Fprintf(&b, "\n%s", d.Highlight)
	}
	if d.ReaderPos != "" {
		fmt.Fprintf(&b, "\n  reader at %s", d.ReaderPos)
	}
	if d.WriterPos != "" {
		fmt.Fprintf(&b, "\n  writer at %s", d.WriterPos)
	}
	return b.String()
}

// Is lets errors.Is match on the Code alone, so callers can do
// errors.Is(err, diag.DuplicatedKey) without extracting the Diagnostic.
func (d *Diagnostic) Is(target error) bool {
	code, ok := target.(codeSentinel)
	if !ok {
		return false
	}
	return d.Code == Code(code)
}

// codeSentinel lets a bare Code be used as an errors.Is target via
// Code.Sentinel().
type codeSentinel Code

func (codeSentinel) Error() string { return "diagnostic code sentinel" }

// Sentinel returns an error usable with errors.Is(err, code.Sentinel()).
func (c Code) Sentinel() error { return codeSentinel(c) }
