package jsontext

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/entry"
	"github.com/brentfarrar/dcgo/env"
)

// Mode selects the Writer's structural formatting (spec §4.5).
type Mode int

const (
	// Default indents nested structure with tabs, one value per line.
	Default Mode = iota
	// Compact emits no extraneous whitespace at all.
	Compact
	// Condensed keeps `: ` after keys and `, ` after commas but omits
	// indentation/newlines — a middle ground used by the CLI for
	// single-line previews.
	Condensed
)

type writeState int

const (
	writeNil writeState = iota
	writeObject
	writeArray
)

// Writer emits the JSON dialect's structural tokens with the three modes
// from spec §4.5. It implements reader.Writer.
type Writer struct {
	mode   Mode
	buf    strings.Builder
	states []writeState
	// atValue tracks object position the same way Reader.topAtValue does,
	// mirrored so Writer independently enforces KeyMustBeString.
	atValue   []bool
	wroteItem []bool
	depth     int
}

func NewWriter(mode Mode) *Writer {
	return &Writer{mode: mode, states: []writeState{writeNil}, atValue: []bool{false}, wroteItem: []bool{false}}
}

// String returns everything written so far.
func (w *Writer) String() string { return w.buf.String() }

func (w *Writer) Position() string {
	return fmt.Sprintf("jsontext.Writer@depth=%d", w.depth)
}

func (w *Writer) top() writeState        { return w.states[len(w.states)-1] }
func (w *Writer) topAtValue() bool       { return w.atValue[len(w.atValue)-1] }
func (w *Writer) setTopAtValue(v bool)   { w.atValue[len(w.atValue)-1] = v }
func (w *Writer) topWroteItem() bool     { return w.wroteItem[len(w.wroteItem)-1] }
func (w *Writer) setTopWroteItem(v bool) { w.wroteItem[len(w.wroteItem)-1] = v }

func (w *Writer) fail(code diag.Code, args ...diag.Arg) error {
	return env.Current().Diag(code).With(args...)
}

func (w *Writer) indent() {
	if w.mode != Default {
		return
	}
	w.buf.WriteByte('\n')
	for i := 0; i < w.depth; i++ {
		w.buf.WriteByte('\t')
	}
}

// beforeValue writes whatever separator/indentation is needed before the
// next value and validates Object key discipline; it is the Writer-side
// mirror of Reader.endTopRead.
func (w *Writer) beforeValue(isKey bool) error {
	switch w.top() {
	case writeObject:
		if !w.topAtValue() {
			if !isKey {
				return w.fail(diag.KeyMustBeString)
			}
			if w.topWroteItem() {
				w.buf.WriteByte(',')
				if w.mode == Condensed {
					w.buf.WriteByte(' ')
				}
			}
			w.indent()
			return nil
		}
		// writing the value half of a pair
		if w.mode == Compact {
			w.buf.WriteByte(':')
		} else {
			w.buf.WriteString(": ")
		}
		return nil
	case writeArray:
		if w.topWroteItem() {
			w.buf.WriteByte(',')
			if w.mode == Condensed {
				w.buf.WriteByte(' ')
			}
		}
		w.indent()
		return nil
	default:
		return nil
	}
}

func (w *Writer) afterValue() {
	switch w.top() {
	case writeObject:
		if !w.topAtValue() {
			w.setTopAtValue(true)
		} else {
			w.setTopAtValue(false)
			w.setTopWroteItem(true)
		}
	case writeArray:
		w.setTopWroteItem(true)
	}
}

func (w *Writer) writeScalar(isKey bool, text string) error {
	if err := w.beforeValue(isKey); err != nil {
		return err
	}
	w.buf.WriteString(text)
	w.afterValue()
	return nil
}

func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (w *Writer) WriteNil() error  { return w.writeScalar(false, "null") }
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.writeScalar(false, "true")
	}
	return w.writeScalar(false, "false")
}
func (w *Writer) WriteName(v string) error   { return w.writeScalar(true, jsonQuote(v)) }
func (w *Writer) WriteString(v string) error { return w.writeScalar(false, jsonQuote(v)) }
func (w *Writer) WriteText(v string) error   { return w.writeScalar(false, jsonQuote(v)) }

func (w *Writer) WriteInt(bits int, v int64) error {
	return w.writeScalar(false, strconv.FormatInt(v, 10))
}
func (w *Writer) WriteUint(bits int, v uint64) error {
	return w.writeScalar(false, strconv.FormatUint(v, 10))
}
func (w *Writer) WriteFloat(v float32) error {
	return w.writeScalar(false, strconv.FormatFloat(float64(v), 'g', -1, 32))
}
func (w *Writer) WriteDouble(v float64) error {
	return w.writeScalar(false, strconv.FormatFloat(v, 'g', -1, 64))
}
func (w *Writer) WriteEnum(numeric int64, name string) error {
	return w.writeScalar(false, jsonQuote(name))
}
func (w *Writer) WriteBlob(v []byte) error {
	return w.writeScalar(false, jsonQuote(base64.StdEncoding.EncodeToString(v)))
}
func (w *Writer) WriteReference(tag entry.Tag, v string) error {
	if v == "" {
		return w.WriteNil()
	}
	return w.writeScalar(false, jsonQuote(v))
}
func (w *Writer) WriteDelegate(v entry.DelegateRef) error {
	return w.writeScalar(false, jsonQuote(v.Object+"."+v.Method))
}
func (w *Writer) WriteMulticastDelegate(tag entry.Tag, v entry.MulticastRef) error {
	if err := w.WriteArrayRoot(); err != nil {
		return err
	}
	for _, b := range v.Bindings {
		if err := w.WriteDelegate(b); err != nil {
			return err
		}
	}
	return w.WriteArrayEnd()
}
func (w *Writer) WriteFieldPath(v entry.FieldPathRef) error {
	return w.writeScalar(false, jsonQuote(strings.Join(v.Segments, ".")))
}

func (w *Writer) pushContainer(open byte, st writeState) error {
	if err := w.beforeValue(false); err != nil {
		return err
	}
	w.buf.WriteByte(open)
	w.depth++
	w.states = append(w.states, st)
	w.atValue = append(w.atValue, false)
	w.wroteItem = append(w.wroteItem, false)
	return nil
}

func (w *Writer) popContainer(close byte, want writeState) error {
	if w.top() != want {
		return w.fail(diag.Unreachable)
	}
	wroteItem := w.topWroteItem()
	w.states = w.states[:len(w.states)-1]
	w.atValue = w.atValue[:len(w.atValue)-1]
	w.wroteItem = w.wroteItem[:len(w.wroteItem)-1]
	w.depth--
	if wroteItem {
		w.indent()
	}
	w.buf.WriteByte(close)
	w.afterValue()
	return nil
}

func (w *Writer) WriteMapRoot() error  { return w.pushContainer('{', writeObject) }
func (w *Writer) WriteMapEnd() error   { return w.popContainer('}', writeObject) }
func (w *Writer) WriteArrayRoot() error { return w.pushContainer('[', writeArray) }
func (w *Writer) WriteArrayEnd() error  { return w.popContainer(']', writeArray) }
func (w *Writer) WriteSetRoot() error   { return w.pushContainer('[', writeArray) }
func (w *Writer) WriteSetEnd() error    { return w.popContainer(']', writeArray) }

func (w *Writer) WriteStructRoot(name string) error {
	if err := w.WriteMapRoot(); err != nil {
		return err
	}
	if name == "" {
		return nil
	}
	if err := w.WriteName(typeTagKey); err != nil {
		return err
	}
	return w.WriteString(name)
}
func (w *Writer) WriteStructEnd() error { return w.WriteMapEnd() }

func (w *Writer) WriteClassRoot(name string) error {
	if err := w.WriteMapRoot(); err != nil {
		return err
	}
	if name == "" {
		return nil
	}
	if err := w.WriteName(typeTagKey); err != nil {
		return err
	}
	return w.WriteString(name)
}
func (w *Writer) WriteClassEnd() error { return w.WriteMapEnd() }
