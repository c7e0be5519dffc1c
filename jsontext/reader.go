// Package jsontext implements the JSON dialect's Reader (a hand-written
// scanner + pull parser, spec §4.1) and Writer (spec §4.5). The dialect
// is a superset of RFC 8259: `//` and nested `/* */` comments, a single
// trailing comma before `}` or `]`, string-literal-only object keys,
// duplicate-key rejection.
package jsontext

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/sourceview"
)

// State is the Reader's top-level lifecycle (spec §4.1).
type State int

const (
	StateUninitialized State = iota
	StateInProgress
	StateFinishedString
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateInProgress:
		return "InProgress"
	case StateFinishedString:
		return "FinishedString"
	default:
		return "Invalid"
	}
}

// parseState is the structural stack entry: Nil (top level), Object, or
// Array.
type parseState int

const (
	parseNil parseState = iota
	parseObject
	parseArray
)

const defaultMaxKeyLen = 512
const defaultMaxDepth = 1024

const eofRune = rune(-1)

// Options configures a Reader. The zero value is valid and uses the
// defaults documented on each field.
type Options struct {
	// MaxKeyLen bounds object key length (spec §4.1 Open Question: any
	// limit >= 256 is acceptable without the host's interned-name cap;
	// this module documents 512 as its choice).
	MaxKeyLen int
	// MaxDepth bounds array/object nesting.
	MaxDepth int
}

// Reader is the streaming JSON pull parser described in spec §4.1. It
// implements reader.Reader.
type Reader struct {
	opts Options

	state State
	buf   string
	cur   int
	loc   entry.Location

	states       []parseState
	keys         []map[string]bool
	topAtValue   bool
	needConsume  bool
	cachedNext   *token
	curTok       token

	view *sourceview.View
	hl   *sourceview.Highlighter
}

// NewReader constructs a Reader over src, ready to read (state
// InProgress), matching the source's SetNewString behavior for a fresh
// reader.
func NewReader(src string, opts Options) *Reader {
	if opts.MaxKeyLen <= 0 {
		opts.MaxKeyLen = defaultMaxKeyLen
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	r := &Reader{opts: opts}
	r.SetInput(src)
	return r
}

// SetInput resets the Reader onto a new buffer. Matches spec's
// SetNewString contract: if currently InProgress it first Finishes,
// and it only accepts being called from Uninitialized or
// FinishedString.
func (r *Reader) SetInput(src string) error {
	if r.state == StateInProgress {
		if err := r.Finish(); err != nil {
			return err
		}
	}
	r.buf = src
	r.view = sourceview.New(src)
	r.hl = sourceview.NewHighlighter(r.view)
	r.cur = 0
	r.loc = entry.Location{Line: 1, Column: 1}
	r.states = []parseState{parseNil}
	r.keys = nil
	r.topAtValue = false
	r.needConsume = true
	r.cachedNext = nil
	r.curTok = token{}
	r.state = StateInProgress
	return nil
}

// AbortAndUninitialize resets the Reader so a new input may be
// provided, matching spec §4.1's "callers may call
// abort_and_uninitialize() to reset" failure-recovery note.
func (r *Reader) AbortAndUninitialize() {
	r.state = StateUninitialized
	r.states = []parseState{parseNil}
	r.keys = nil
	r.cachedNext = nil
}

// Finish requires the reader be InProgress and demands the remaining
// input is Ended (ignoring trailing comments, spec §9 open question).
func (r *Reader) Finish() error {
	if r.state != StateInProgress {
		return r.fail(diag.ExpectStateInProgress, diag.Str(r.state.String()))
	}
	tag, err := r.Peek()
	if err != nil {
		return err
	}
	if tag != entry.Ended {
		return r.failH(diag.UnexpectedTrailingToken, r.curHighlight(), diag.Str(tag.String()))
	}
	r.state = StateFinishedString
	return nil
}

// Position renders the current cursor location for diagnostic amending.
func (r *Reader) Position() string {
	return fmt.Sprintf("jsontext.Reader@%s", r.loc)
}

func (r *Reader) fail(code diag.Code, args ...diag.Arg) error {
	d := env.Current().Diag(code).With(args...)
	return d
}

// failH is fail plus a rendered source highlight, attached via
// WithHighlight so Diagnostic.Error() renders it under the message
// instead of dropping it as an unmatched {N} placeholder.
func (r *Reader) failH(code diag.Code, hl diag.Highlight, args ...diag.Arg) error {
	d := env.Current().Diag(code).With(args...).WithHighlight(hl)
	return d
}

func (r *Reader) curHighlight() diag.Highlight {
	return diag.Highlight{Rendered: r.hl.FormatSpan(r.curTok.span)}
}

func (r *Reader) highlightAt(begin, num int) diag.Highlight {
	return diag.Highlight{Rendered: r.hl.Format(begin, num)}
}

// ---- character-level helpers ----

func (r *Reader) isAtEnd() bool { return r.cur >= len(r.buf) }

func (r *Reader) peekCharN(n int) rune {
	pos := r.cur
	for i := 0; i < n; i++ {
		if pos >= len(r.buf) {
			return eofRune
		}
		_, size := utf8.DecodeRuneInString(r.buf[pos:])
		pos += size
	}
	if pos >= len(r.buf) {
		return eofRune
	}
	c, _ := utf8.DecodeRuneInString(r.buf[pos:])
	return c
}

func (r *Reader) peekChar() rune { return r.peekCharN(0) }

func (r *Reader) advance() {
	if r.isAtEnd() {
		return
	}
	c, size := utf8.DecodeRuneInString(r.buf[r.cur:])
	r.cur += size
	if c == '\n' {
		r.loc.Line++
		r.loc.Column = 1
	} else {
		r.loc.Column++
	}
}

func (r *Reader) advanceN(n int) {
	for i := 0; i < n; i++ {
		r.advance()
	}
}

func isLineBreak(c rune) bool { return c == '\n' || c == '\r' }
func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
func isDigit(c rune) bool { return c >= '0' && c <= '9' }
func isControl(c rune) bool { return c >= 0 && c < 0x20 }

// ---- raw scanner: exactly one token per call ----

func (r *Reader) consumeRawToken() (token, error) {
	if r.cachedNext != nil {
		t := *r.cachedNext
		r.cachedNext = nil
		return t, nil
	}
	if r.isAtEnd() {
		return token{kind: KindEOF, span: entry.Span{Begin: r.cur, Num: 0}}, nil
	}

	c := r.peekChar()
	switch {
	case isWhitespace(c):
		return r.readWhitespace(), nil
	case c == '/':
		next := r.peekCharN(1)
		if next == '/' {
			return r.readLineComment(), nil
		}
		if next == '*' {
			return r.readBlockComment()
		}
		return token{}, r.failH(diag.UnexpectedChar, r.highlightAt(r.cur, 1), diag.Str(string(c)))
	case c == '{':
		return r.singleCharToken(KindCurlyOpen), nil
	case c == '}':
		return r.singleCharToken(KindCurlyClose), nil
	case c == '[':
		return r.singleCharToken(KindSquareOpen), nil
	case c == ']':
		return r.singleCharToken(KindSquareClose), nil
	case c == ':':
		return r.singleCharToken(KindColon), nil
	case c == ',':
		return r.singleCharToken(KindComma), nil
	case c == '"':
		return r.readStringToken()
	case c == '-' || isDigit(c):
		return r.readNumberToken(), nil
	case c == 't':
		if err := r.readWordExpect("true"); err != nil {
			return token{}, err
		}
		return token{kind: KindTrue, span: r.curTok.span}, nil
	case c == 'f':
		if err := r.readWordExpect("false"); err != nil {
			return token{}, err
		}
		return token{kind: KindFalse, span: r.curTok.span}, nil
	case c == 'n':
		if err := r.readWordExpect("null"); err != nil {
			return token{}, err
		}
		return token{kind: KindNull, span: r.curTok.span}, nil
	default:
		return token{}, r.failH(diag.UnexpectedChar, r.highlightAt(r.cur, 1), diag.Str(string(c)))
	}
}

func (r *Reader) singleCharToken(k Kind) token {
	begin := r.cur
	r.advance()
	return token{kind: k, span: entry.Span{Begin: begin, Num: r.cur - begin}}
}

func (r *Reader) readWhitespace() token {
	begin := r.cur
	for !r.isAtEnd() && isWhitespace(r.peekChar()) {
		r.advance()
	}
	return token{kind: KindWhitespace, span: entry.Span{Begin: begin, Num: r.cur - begin}}
}

func (r *Reader) readLineComment() token {
	begin := r.cur
	r.advanceN(2)
	for !r.isAtEnd() && !isLineBreak(r.peekChar()) {
		r.advance()
	}
	return token{kind: KindLineComment, span: entry.Span{Begin: begin, Num: r.cur - begin}}
}

func (r *Reader) readBlockComment() (token, error) {
	begin := r.cur
	r.advanceN(2)
	depth := 1
	for !r.isAtEnd() {
		c0, c1 := r.peekCharN(0), r.peekCharN(1)
		if c0 == '/' && c1 == '*' {
			depth++
			r.advanceN(2)
			continue
		}
		if c0 == '*' && c1 == '/' {
			depth--
			r.advanceN(2)
			if depth == 0 {
				break
			}
			continue
		}
		r.advance()
	}
	if depth != 0 {
		return token{}, r.failH(diag.UnclosedBlockComment, r.highlightAt(begin, 2))
	}
	return token{kind: KindBlockComment, span: entry.Span{Begin: begin, Num: r.cur - begin}}, nil
}

func (r *Reader) readWordExpect(word string) error {
	begin := r.cur
	for _, want := range word {
		if r.isAtEnd() {
			return r.failH(diag.ExpectWordButEOF, r.highlightAt(begin, r.cur-begin), diag.Str(word))
		}
		got := r.peekChar()
		if got != want {
			return r.failH(diag.ExpectWordButNotFound, r.highlightAt(begin, r.cur-begin+1), diag.Str(word))
		}
		r.advance()
	}
	r.curTok.span = entry.Span{Begin: begin, Num: r.cur - begin}
	return nil
}

func (r *Reader) readStringToken() (token, error) {
	begin := r.cur
	hasEscape := false
	r.advance() // opening quote
	for {
		c := r.peekChar()
		if c == eofRune || isLineBreak(c) {
			return token{}, r.failH(diag.UnclosedStringLiteral, r.highlightAt(begin, 1))
		}
		if c == '"' {
			r.advance()
			break
		}
		if c == '\\' {
			hasEscape = true
			r.advance()
			r.advance() // unconditionally skip the escaped char, whatever it is
			continue
		}
		if isControl(c) {
			return token{}, r.failH(diag.InvalidControlCharInString, r.highlightAt(r.cur, 1))
		}
		r.advance()
	}
	return token{kind: KindString, span: entry.Span{Begin: begin, Num: r.cur - begin}, hasEscape: hasEscape}, nil
}

func (r *Reader) readNumberToken() token {
	begin := r.cur
	var flags numberFlags
	if r.peekChar() == '-' {
		flags.isNegative = true
	}
	r.advance()
	for !r.isAtEnd() {
		c := r.peekChar()
		switch {
		case c == '.':
			flags.hasDecimal = true
			flags.decimalOffset = r.cur - begin
			r.advance()
		case c == 'e' || c == 'E':
			flags.hasExp = true
			r.advance()
		case c == '-' || c == '+' || isDigit(c):
			r.advance()
		default:
			return token{kind: KindNumber, span: entry.Span{Begin: begin, Num: r.cur - begin}, num: flags}
		}
	}
	return token{kind: KindNumber, span: entry.Span{Begin: begin, Num: r.cur - begin}, num: flags}
}

// ---- effective token layer ----

// consumeEffectiveToken repeatedly invokes the raw scanner and skips
// tokens whose kind is non-effective (whitespace, comments) — spec
// §4.1.
func (r *Reader) consumeEffectiveToken() error {
	for {
		t, err := r.consumeRawToken()
		if err != nil {
			return err
		}
		if t.kind.isEffective() {
			r.curTok = t
			return nil
		}
	}
}

func (r *Reader) putbackToken(t token) {
	cp := t
	r.cachedNext = &cp
}

// ---- entry layer ----

func (r *Reader) readTokenAsEntry() (entry.Tag, error) {
	switch r.curTok.kind {
	case KindTrue, KindFalse, KindNull, KindCurlyOpen, KindCurlyClose,
		KindSquareOpen, KindSquareClose, KindString, KindNumber, KindEOF:
		return tokenTypeToEntry(r.curTok.kind), nil
	default:
		return entry.None, r.failH(diag.UnexpectedToken, r.curHighlight())
	}
}

// Peek consumes the next effective token iff a consume is pending, maps
// it to an Entry tag, and returns the tag without marking it consumed
// (spec invariant I5 / idempotent peek).
func (r *Reader) Peek() (entry.Tag, error) {
	if r.needConsume {
		if err := r.consumeEffectiveToken(); err != nil {
			return entry.None, err
		}
		r.needConsume = false
	}
	return r.readTokenAsEntry()
}

// canonicalExpect maps a precise Entry tag onto the generic token
// category the JSON lexer can actually distinguish (JSON has one number
// shape and one string shape, not eight integer widths). The Read<Kind>
// functions still validate the precise shape themselves afterward; this
// layer only rejects tokens that could never represent expect at all.
// allowNil additionally permits a JSON `null` to satisfy a nullable
// reference kind.
func canonicalExpect(expect entry.Tag) (canon entry.Tag, allowNil bool) {
	if expect.IsNumeric() {
		return entry.Double, false
	}
	switch expect {
	case entry.Name, entry.Text, entry.Enum, entry.Blob, entry.Delegate, entry.FieldPath:
		return entry.String, false
	case entry.ObjectReference, entry.ClassReference, entry.WeakObjectReference,
		entry.LazyObjectReference, entry.SoftObjectReference, entry.SoftClassReference,
		entry.InterfaceReference:
		return entry.String, true
	case entry.SetRoot:
		return entry.ArrayRoot, false
	case entry.SetEnd:
		return entry.ArrayEnd, false
	default:
		return expect, false
	}
}

// checkConsumeToken is the shared helper every Read<Kind> uses: it peeks
// (if needed), asserts the resulting entry matches expect's token
// category, and marks the slot consumed.
func (r *Reader) checkConsumeToken(expect entry.Tag) error {
	if r.needConsume {
		if err := r.consumeEffectiveToken(); err != nil {
			return err
		}
		actual, err := r.readTokenAsEntry()
		if err != nil {
			return err
		}
		canon, allowNil := canonicalExpect(expect)
		if actual != canon && !(allowNil && actual == entry.Nil) {
			return r.failH(diag.DataTypeMismatch, r.curHighlight(), diag.Str(expect.String()), diag.Str(actual.String()))
		}
	}
	r.needConsume = true
	return nil
}

func (r *Reader) topState() parseState { return r.states[len(r.states)-1] }
func (r *Reader) pushState(s parseState) { r.states = append(r.states, s) }
func (r *Reader) popState() parseState {
	s := r.states[len(r.states)-1]
	r.states = r.states[:len(r.states)-1]
	return s
}

func (r *Reader) checkNotObjectKey() error {
	if r.topState() == parseObject && !r.topAtValue {
		return r.failH(diag.KeyMustBeString, r.curHighlight())
	}
	return nil
}

// endTopRead enforces comma/close discipline after a value has been
// consumed (spec §4.1 structural state machine).
func (r *Reader) endTopRead() error {
	switch r.topState() {
	case parseObject:
		if !r.topAtValue {
			if err := r.consumeEffectiveToken(); err != nil {
				return err
			}
			if r.curTok.kind != KindColon {
				return r.failH(diag.UnexpectedToken, r.curHighlight())
			}
			r.topAtValue = true
			return nil
		}
		prev := r.curTok
		if err := r.consumeEffectiveToken(); err != nil {
			return err
		}
		r.topAtValue = false
		switch r.curTok.kind {
		case KindComma:
			return nil
		case KindCurlyClose:
			r.putbackToken(r.curTok)
			r.curTok = prev
			return nil
		default:
			return r.failH(diag.ExpectComma, r.curHighlight())
		}
	case parseArray:
		prev := r.curTok
		if err := r.consumeEffectiveToken(); err != nil {
			return err
		}
		switch r.curTok.kind {
		case KindComma:
			return nil
		case KindSquareClose:
			r.putbackToken(r.curTok)
			r.curTok = prev
			return nil
		default:
			return r.failH(diag.ExpectComma, r.curHighlight())
		}
	default: // parseNil
		return nil
	}
}

// Coercion implements spec §4.1: Number -> any numeric or String;
// String -> Name or Text. No other coercions.
func (r *Reader) Coercion(target entry.Tag) bool {
	switch r.curTok.kind {
	case KindNumber:
		return target.IsNumeric() || target == entry.String
	case KindString:
		return target == entry.Name || target == entry.Text
	default:
		return false
	}
}

// ---- scalar reads ----

func (r *Reader) ReadNil() error {
	if err := r.checkConsumeToken(entry.Nil); err != nil {
		return err
	}
	if r.curTok.kind != KindNull {
		return r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.Nil.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	if err := r.checkNotObjectKey(); err != nil {
		return err
	}
	return r.endTopRead()
}

func (r *Reader) ReadBool() (bool, error) {
	if err := r.checkConsumeToken(entry.Bool); err != nil {
		return false, err
	}
	switch r.curTok.kind {
	case KindTrue, KindFalse:
		if err := r.checkNotObjectKey(); err != nil {
			return false, err
		}
		v := r.curTok.kind == KindTrue
		return v, r.endTopRead()
	default:
		return false, r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.Bool.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
}

func (r *Reader) checkObjectDuplicatedKey(key string) error {
	top := r.keys[len(r.keys)-1]
	if top[key] {
		return r.failH(diag.DuplicatedKey, r.curHighlight())
	}
	top[key] = true
	return nil
}

func (r *Reader) isAtObjectKey() bool {
	return r.topState() == parseObject && !r.topAtValue
}

func (r *Reader) parseStringLiteral() (string, error) {
	lit := r.curTok.span
	inner := entry.Span{Begin: lit.Begin + 1, Num: lit.Num - 2}
	raw := r.view.Text(inner)
	if !r.curTok.hasEscape {
		return raw, nil
	}
	// Reuse Go's quoted-string unescaper: the token already matches JSON
	// escape grammar, so wrap in Go quotes (identical escapes for the
	// common set) and let strconv.Unquote do the work; fall back to a
	// manual decode for \uXXXX surrogate pairs which Go accepts natively.
	quoted := r.view.Text(lit)
	unquoted, err := strconv.Unquote(strings.ReplaceAll(quoted, `\/`, "/"))
	if err != nil {
		return "", r.failH(diag.InvalidStringEscaping, r.highlightAt(lit.Begin, lit.Num))
	}
	return unquoted, nil
}

func (r *Reader) readKeyAwareString() (string, error) {
	s, err := r.parseStringLiteral()
	if err != nil {
		return "", err
	}
	if r.isAtObjectKey() {
		if len(s) > r.opts.MaxKeyLen {
			return "", r.failH(diag.ObjectKeyTooLong, r.curHighlight())
		}
		if err := r.checkObjectDuplicatedKey(s); err != nil {
			return "", err
		}
	}
	return s, nil
}

func (r *Reader) ReadName() (string, error) {
	if err := r.checkConsumeToken(entry.Name); err != nil {
		return "", err
	}
	if r.curTok.kind != KindString {
		return "", r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.Name.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	s, err := r.readKeyAwareString()
	if err != nil {
		return "", err
	}
	return s, r.endTopRead()
}

func (r *Reader) ReadString() (string, error) {
	if err := r.checkConsumeToken(entry.String); err != nil {
		return "", err
	}
	switch r.curTok.kind {
	case KindString:
		s, err := r.readKeyAwareString()
		if err != nil {
			return "", err
		}
		return s, r.endTopRead()
	case KindNumber:
		s := r.view.Text(r.curTok.span)
		return s, r.endTopRead()
	default:
		return "", r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.String.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
}

func (r *Reader) ReadText() (string, error) {
	if err := r.checkConsumeToken(entry.Text); err != nil {
		return "", err
	}
	if r.curTok.kind != KindString {
		return "", r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.Text.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	s, err := r.readKeyAwareString()
	if err != nil {
		return "", err
	}
	return s, r.endTopRead()
}

// ---- numeric reads ----

// integerPrefixLen returns how much of the token span is the integer
// prefix (everything before the decimal point, or the whole span if
// there is none) — used to validate a strict integer parse consumed
// exactly that much (spec §4.1 ParseInteger).
func (t token) integerPrefixLen() int {
	if t.num.hasDecimal {
		return t.num.decimalOffset
	}
	return t.span.Num
}

func (r *Reader) parseIntegerToken(bits int) (int64, error) {
	lit := r.view.Text(r.curTok.span)
	prefixLen := r.curTok.integerPrefixLen()
	prefix := lit
	if prefixLen < len(lit) {
		prefix = lit[:prefixLen]
	}
	v, err := strconv.ParseInt(prefix, 10, bits)
	if err != nil || len(prefix) != prefixLen {
		return 0, r.failH(diag.ParseIntegerFailed, r.curHighlight())
	}
	return v, nil
}

func (r *Reader) parseUnsignedToken(bits int) (uint64, error) {
	lit := r.view.Text(r.curTok.span)
	prefixLen := r.curTok.integerPrefixLen()
	prefix := lit
	if prefixLen < len(lit) {
		prefix = lit[:prefixLen]
	}
	v, err := strconv.ParseUint(prefix, 10, bits)
	if err != nil || len(prefix) != prefixLen {
		return 0, r.failH(diag.ParseIntegerFailed, r.curHighlight())
	}
	return v, nil
}

func entryTagForInt(bits int) entry.Tag {
	switch bits {
	case 8:
		return entry.Int8
	case 16:
		return entry.Int16
	case 32:
		return entry.Int32
	default:
		return entry.Int64
	}
}

func entryTagForUint(bits int) entry.Tag {
	switch bits {
	case 8:
		return entry.UInt8
	case 16:
		return entry.UInt16
	case 32:
		return entry.UInt32
	default:
		return entry.UInt64
	}
}

// ReadInt reads a signed integer of the given bit width (8/16/32/64).
func (r *Reader) ReadInt(bits int) (int64, error) {
	want := entryTagForInt(bits)
	if err := r.checkConsumeToken(want); err != nil {
		return 0, err
	}
	if r.curTok.kind != KindNumber {
		return 0, r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(want.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	if err := r.checkNotObjectKey(); err != nil {
		return 0, err
	}
	v, err := r.parseIntegerToken(bits)
	if err != nil {
		return 0, err
	}
	return v, r.endTopRead()
}

// ReadUint reads an unsigned integer of the given bit width, rejecting a
// negative literal (spec §4.1 ReadUnsignedInteger).
func (r *Reader) ReadUint(bits int) (uint64, error) {
	want := entryTagForUint(bits)
	if err := r.checkConsumeToken(want); err != nil {
		return 0, err
	}
	if r.curTok.kind != KindNumber {
		return 0, r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(want.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	if err := r.checkNotObjectKey(); err != nil {
		return 0, err
	}
	if r.curTok.num.isNegative {
		return 0, r.failH(diag.ReadUnsignedWithNegativeNumber, r.curHighlight())
	}
	v, err := r.parseUnsignedToken(bits)
	if err != nil {
		return 0, err
	}
	return v, r.endTopRead()
}

func (r *Reader) ReadFloat() (float32, error) {
	if err := r.checkConsumeToken(entry.Float); err != nil {
		return 0, err
	}
	if r.curTok.kind != KindNumber {
		return 0, r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.Float.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	if err := r.checkNotObjectKey(); err != nil {
		return 0, err
	}
	lit := r.view.Text(r.curTok.span)
	v, err := strconv.ParseFloat(lit, 32)
	if err != nil {
		return 0, r.failH(diag.ParseIntegerFailed, r.curHighlight())
	}
	return float32(v), r.endTopRead()
}

func (r *Reader) ReadDouble() (float64, error) {
	if err := r.checkConsumeToken(entry.Double); err != nil {
		return 0, err
	}
	if r.curTok.kind != KindNumber {
		return 0, r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.Double.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	if err := r.checkNotObjectKey(); err != nil {
		return 0, err
	}
	lit := r.view.Text(r.curTok.span)
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, r.failH(diag.ParseIntegerFailed, r.curHighlight())
	}
	return v, r.endTopRead()
}

// ReadEnum reads an enum entry encoded as its case name (a JSON string).
// The numeric value is unknown to the Reader (name resolution happens in
// property/serde against the host's enum descriptor); it returns 0 for
// the numeric half, leaving the caller to resolve the name.
func (r *Reader) ReadEnum() (int64, string, error) {
	if err := r.checkConsumeToken(entry.Enum); err != nil {
		return 0, "", err
	}
	if r.curTok.kind != KindString {
		return 0, "", r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.Enum.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	s, err := r.readKeyAwareString()
	if err != nil {
		return 0, "", err
	}
	return 0, s, r.endTopRead()
}

// ReadBlob reads a base64-encoded JSON string as raw bytes.
func (r *Reader) ReadBlob() ([]byte, error) {
	if err := r.checkConsumeToken(entry.Blob); err != nil {
		return nil, err
	}
	if r.curTok.kind != KindString {
		return nil, r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.Blob.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	s, err := r.parseStringLiteral()
	if err != nil {
		return nil, err
	}
	b, decErr := decodeBase64(s)
	if decErr != nil {
		return nil, r.failH(diag.BlobOverrun, r.curHighlight())
	}
	return b, r.endTopRead()
}

func (r *Reader) ReadReference(tag entry.Tag) (string, error) {
	if err := r.checkConsumeToken(tag); err != nil {
		return "", err
	}
	if r.curTok.kind != KindString && r.curTok.kind != KindNull {
		return "", r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(tag.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	if r.curTok.kind == KindNull {
		return "", r.endTopRead()
	}
	s, err := r.readKeyAwareString()
	if err != nil {
		return "", err
	}
	return s, r.endTopRead()
}

func (r *Reader) ReadDelegate() (entry.DelegateRef, error) {
	if err := r.checkConsumeToken(entry.Delegate); err != nil {
		return entry.DelegateRef{}, err
	}
	if r.curTok.kind != KindString {
		return entry.DelegateRef{}, r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.Delegate.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	s, err := r.readKeyAwareString()
	if err != nil {
		return entry.DelegateRef{}, err
	}
	obj, method, _ := strings.Cut(s, ".")
	return entry.DelegateRef{Object: obj, Method: method}, r.endTopRead()
}

func (r *Reader) ReadMulticastDelegate(tag entry.Tag) (entry.MulticastRef, error) {
	if err := r.ReadArrayRoot(); err != nil {
		return entry.MulticastRef{}, err
	}
	var bindings []entry.DelegateRef
	for {
		t, err := r.Peek()
		if err != nil {
			return entry.MulticastRef{}, err
		}
		if t == entry.ArrayEnd {
			break
		}
		d, err := r.ReadDelegate()
		if err != nil {
			return entry.MulticastRef{}, err
		}
		bindings = append(bindings, d)
	}
	if err := r.ReadArrayEnd(); err != nil {
		return entry.MulticastRef{}, err
	}
	return entry.MulticastRef{Bindings: bindings}, nil
}

func (r *Reader) ReadFieldPath() (entry.FieldPathRef, error) {
	if err := r.checkConsumeToken(entry.FieldPath); err != nil {
		return entry.FieldPathRef{}, err
	}
	if r.curTok.kind != KindString {
		return entry.FieldPathRef{}, r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.FieldPath.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	s, err := r.readKeyAwareString()
	if err != nil {
		return entry.FieldPathRef{}, err
	}
	return entry.FieldPathRef{Segments: strings.Split(s, ".")}, r.endTopRead()
}

// ---- containers ----

func (r *Reader) checkDepth() error {
	if len(r.states) >= r.opts.MaxDepth {
		return r.failH(diag.UnexpectedToken, r.curHighlight())
	}
	return nil
}

func (r *Reader) ReadMapRoot() error {
	if err := r.checkConsumeToken(entry.MapRoot); err != nil {
		return err
	}
	if r.curTok.kind != KindCurlyOpen {
		return r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.MapRoot.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	if err := r.checkNotObjectKey(); err != nil {
		return err
	}
	if err := r.checkDepth(); err != nil {
		return err
	}
	r.pushState(parseObject)
	r.topAtValue = false
	r.keys = append(r.keys, map[string]bool{})
	return nil
}

func (r *Reader) ReadMapEnd() error {
	if err := r.checkConsumeToken(entry.MapEnd); err != nil {
		return err
	}
	if r.curTok.kind != KindCurlyClose {
		return r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.MapEnd.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	r.popState()
	r.topAtValue = true
	r.keys = r.keys[:len(r.keys)-1]
	return r.endTopRead()
}

func (r *Reader) ReadArrayRoot() error {
	if err := r.checkConsumeToken(entry.ArrayRoot); err != nil {
		return err
	}
	if r.curTok.kind != KindSquareOpen {
		return r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.ArrayRoot.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	if err := r.checkNotObjectKey(); err != nil {
		return err
	}
	if err := r.checkDepth(); err != nil {
		return err
	}
	r.pushState(parseArray)
	return nil
}

func (r *Reader) ReadArrayEnd() error {
	if err := r.checkConsumeToken(entry.ArrayEnd); err != nil {
		return err
	}
	if r.curTok.kind != KindSquareClose {
		return r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.ArrayEnd.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	r.popState()
	return r.endTopRead()
}

// ReadSetRoot/ReadSetEnd reuse the array token shapes — the JSON dialect
// has no distinct set syntax, so a Set is a JSON array whose element
// entry tags are all identical by construction (enforced by serde, not
// the Reader).
func (r *Reader) ReadSetRoot() error {
	if err := r.checkConsumeToken(entry.SetRoot); err != nil {
		return err
	}
	if r.curTok.kind != KindSquareOpen {
		return r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.SetRoot.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	if err := r.checkNotObjectKey(); err != nil {
		return err
	}
	if err := r.checkDepth(); err != nil {
		return err
	}
	r.pushState(parseArray)
	return nil
}

func (r *Reader) ReadSetEnd() error {
	if err := r.checkConsumeToken(entry.SetEnd); err != nil {
		return err
	}
	if r.curTok.kind != KindSquareClose {
		return r.failH(diag.ReadTypeMismatch, r.curHighlight(), diag.Str(entry.SetEnd.String()), diag.Str(tokenTypeToEntry(r.curTok.kind).String()))
	}
	r.popState()
	return r.endTopRead()
}

// ReadStructRoot/ReadClassRoot: a struct/class is a JSON object; the
// "name" is carried as a `"$type"` key when present, otherwise empty
// (the property layer already knows the static type from the field it
// is writing into, same as the source relying on reflection).
func (r *Reader) ReadStructRoot() (string, error) {
	if err := r.ReadMapRoot(); err != nil {
		return "", err
	}
	return r.maybeReadTypeTag()
}

func (r *Reader) ReadStructEnd() error { return r.ReadMapEnd() }

func (r *Reader) ReadClassRoot() (string, error) {
	if err := r.ReadMapRoot(); err != nil {
		return "", err
	}
	return r.maybeReadTypeTag()
}

func (r *Reader) ReadClassEnd() error { return r.ReadMapEnd() }

const typeTagKey = "$type"

func (r *Reader) maybeReadTypeTag() (string, error) {
	tag, err := r.Peek()
	if err != nil {
		return "", err
	}
	if tag != entry.Name && tag != entry.String {
		return "", nil
	}
	// Peek the raw token without committing; only consume if it is the
	// reserved $type key.
	if r.curTok.kind != KindString {
		return "", nil
	}
	s := r.view.Text(entry.Span{Begin: r.curTok.span.Begin + 1, Num: r.curTok.span.Num - 2})
	if s != typeTagKey {
		return "", nil
	}
	if _, err := r.ReadName(); err != nil {
		return "", err
	}
	return r.ReadString()
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
