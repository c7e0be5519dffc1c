package jsontext

import "github.com/brentfarrar/dcgo/entry"

// Kind is the raw lexical token kind produced by the scanner, one token
// per call. Whitespace and the two comment kinds are last in the
// ordering on purpose: the effective-token layer skips any token whose
// kind is >= Whitespace (spec §4.1's "effective token" rule).
type Kind int

const (
	KindEOF Kind = iota
	KindNull
	KindCurlyOpen
	KindCurlyClose
	KindSquareOpen
	KindSquareClose
	KindColon
	KindComma
	KindString
	KindNumber
	KindTrue
	KindFalse
	KindWhitespace
	KindLineComment
	KindBlockComment
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindNull:
		return "null"
	case KindCurlyOpen:
		return "{"
	case KindCurlyClose:
		return "}"
	case KindSquareOpen:
		return "["
	case KindSquareClose:
		return "]"
	case KindColon:
		return ":"
	case KindComma:
		return ","
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindWhitespace:
		return "whitespace"
	case KindLineComment:
		return "//comment"
	case KindBlockComment:
		return "/*comment*/"
	default:
		return "?"
	}
}

// isEffective reports whether a token kind participates in the grammar
// (i.e. is not filtered out by consumeEffectiveToken).
func (k Kind) isEffective() bool { return k < KindWhitespace }

// numberFlags records everything a numeric token's shape needs without
// re-scanning: negativity, decimal point offset (for integer-prefix
// validation — spec §4.1 numeric parsing), and exponent presence.
type numberFlags struct {
	isNegative    bool
	hasDecimal    bool
	decimalOffset int
	hasExp        bool
}

// token is the raw scanner's output: a kind, the span it covers, and
// flags relevant to strings/numbers.
type token struct {
	kind          Kind
	span          entry.Span
	hasEscape     bool // string only
	num           numberFlags
}

// tokenTypeToEntry maps a structural/literal token kind to the Entry tag
// it represents at the entry layer (spec §4.1 TokenTypeToDataEntry).
func tokenTypeToEntry(k Kind) entry.Tag {
	switch k {
	case KindEOF:
		return entry.Ended
	case KindNull:
		return entry.Nil
	case KindCurlyOpen:
		return entry.MapRoot
	case KindCurlyClose:
		return entry.MapEnd
	case KindSquareOpen:
		return entry.ArrayRoot
	case KindSquareClose:
		return entry.ArrayEnd
	case KindColon:
		return entry.Nil // never reached as an entry; colon is structural-only
	case KindString:
		return entry.String
	case KindNumber:
		return entry.Double
	case KindTrue, KindFalse:
		return entry.Bool
	default:
		return entry.None
	}
}
