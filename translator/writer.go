package translator

import (
	"fmt"
	"strings"
)

// Sink is the text destination translators write to. Implementations keep an
// indent level that never drops below zero.
type Sink interface {
	Write(s string)
	// WriteIndent writes the current indent as leading whitespace.
	WriteIndent()
	// WriteOpenBrace writes an indented "{" line and enters a nested block.
	WriteOpenBrace()
	// WriteCloseBrace leaves the block and writes an indented "}" line.
	WriteCloseBrace()
}

// Writer is the in-memory Sink used for one translation unit.
type Writer struct {
	buf    strings.Builder
	unit   string
	indent int
}

// NewWriter creates a Writer indenting with unit; an empty unit means a tab.
func NewWriter(unit string) *Writer {
	if unit == "" {
		unit = "\t"
	}
	return &Writer{unit: unit}
}

func (w *Writer) Write(s string) {
	w.buf.WriteString(s)
}

func (w *Writer) Writef(format string, args ...any) {
	fmt.Fprintf(&w.buf, format, args...)
}

// WriteLine writes an indented line.
func (w *Writer) WriteLine(s string) {
	w.WriteIndent()
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *Writer) WriteIndent() {
	for range w.indent {
		w.buf.WriteString(w.unit)
	}
}

func (w *Writer) WriteOpenBrace() {
	w.WriteLine("{")
	w.indent++
}

func (w *Writer) WriteCloseBrace() {
	if w.indent > 0 {
		w.indent--
	}
	w.WriteLine("}")
}

// Indent moves the level by delta, clamped at zero.
func (w *Writer) Indent(delta int) {
	w.indent = max(w.indent+delta, 0)
}

// Depth returns the current indent level.
func (w *Writer) Depth() int { return w.indent }

func (w *Writer) String() string { return w.buf.String() }

func (w *Writer) Len() int { return w.buf.Len() }

// Reset drops everything written and returns to depth zero.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.indent = 0
}
