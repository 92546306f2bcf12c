package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/funvibe/comprex/internal/evaluator"
)

// --- Value Printer (Output looks like expression literals) ---

// ANSI foreground colours
const (
	fgGreen  = 32
	fgYellow = 33
	fgCyan   = 36
	fgReset  = 39
)

type ValuePrinter struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int // max line width (0 = unlimited)
	column    int // current column position
	color     bool
}

func NewValuePrinter(color bool) *ValuePrinter {
	return &ValuePrinter{lineWidth: 80, color: color}
}

func NewValuePrinterWithWidth(width int, color bool) *ValuePrinter {
	return &ValuePrinter{lineWidth: width, color: color}
}

func (p *ValuePrinter) SetLineWidth(width int) {
	p.lineWidth = width
}

func (p *ValuePrinter) String() string {
	return p.buf.String()
}

func (p *ValuePrinter) Reset() {
	p.buf.Reset()
	p.indent = 0
	p.column = 0
}

// Format renders obj, breaking containers one element per line when they
// do not fit the line width.
func Format(obj evaluator.Object, width int, color bool) string {
	p := NewValuePrinterWithWidth(width, color)
	p.Print(obj)
	return p.String()
}

// write appends s; s must not contain newlines. visible is its printed width.
func (p *ValuePrinter) write(s string, visible int) {
	p.buf.WriteString(s)
	p.column += visible
}

func (p *ValuePrinter) writeln() {
	p.buf.WriteByte('\n')
	p.column = 0
}

func (p *ValuePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
	p.column = p.indent * 4
}

func (p *ValuePrinter) fits(s string) bool {
	return p.lineWidth <= 0 || p.column+len(s) <= p.lineWidth
}

func (p *ValuePrinter) paint(code int, s string) string {
	if !p.color {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[%dm", code, s, fgReset)
}

// Print writes obj at the current position.
func (p *ValuePrinter) Print(obj evaluator.Object) {
	plain := obj.Inspect()
	if p.fits(plain) {
		p.write(p.flat(obj), len(plain))
		return
	}

	switch o := obj.(type) {
	case *evaluator.List:
		if evaluator.IsStringList(o) {
			break
		}
		p.printBlock("[", "]", o.ToSlice(), false)
		return
	case *evaluator.Tuple:
		p.printBlock("(", ")", o.Elements, len(o.Elements) == 1)
		return
	case *evaluator.Map:
		p.printMap(o)
		return
	}
	p.write(p.flat(obj), len(plain))
}

func (p *ValuePrinter) printBlock(open, close string, elements []evaluator.Object, trailingComma bool) {
	p.write(open, len(open))
	p.indent++
	for i, el := range elements {
		p.writeln()
		p.writeIndent()
		p.Print(el)
		if i < len(elements)-1 || trailingComma {
			p.write(",", 1)
		}
	}
	p.indent--
	p.writeln()
	p.writeIndent()
	p.write(close, len(close))
}

func (p *ValuePrinter) printMap(m *evaluator.Map) {
	items := m.Items()
	p.write("{", 1)
	p.indent++
	for i, item := range items {
		p.writeln()
		p.writeIndent()
		p.Print(item.Key)
		p.write(": ", 2)
		p.Print(item.Value)
		if i < len(items)-1 {
			p.write(",", 1)
		}
	}
	p.indent--
	p.writeln()
	p.writeIndent()
	p.write("}", 1)
}

// flat renders obj on one line, coloured when enabled. Without colour it
// equals obj.Inspect().
func (p *ValuePrinter) flat(obj evaluator.Object) string {
	if !p.color {
		return obj.Inspect()
	}
	switch o := obj.(type) {
	case *evaluator.Integer, *evaluator.Float, *evaluator.Range:
		return p.paint(fgCyan, o.Inspect())
	case *evaluator.Char, *evaluator.Bits:
		return p.paint(fgGreen, o.Inspect())
	case *evaluator.Boolean, *evaluator.Nil:
		return p.paint(fgYellow, o.Inspect())
	case *evaluator.List:
		if evaluator.IsStringList(o) {
			return p.paint(fgGreen, o.Inspect())
		}
		return "[" + p.joinFlat(o.ToSlice()) + "]"
	case *evaluator.Tuple:
		if len(o.Elements) == 1 {
			return "(" + p.flat(o.Elements[0]) + ",)"
		}
		return "(" + p.joinFlat(o.Elements) + ")"
	case *evaluator.Map:
		parts := make([]string, 0, o.Len())
		for _, item := range o.Items() {
			parts = append(parts, p.flat(item.Key)+": "+p.flat(item.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return obj.Inspect()
	}
}

func (p *ValuePrinter) joinFlat(elements []evaluator.Object) string {
	parts := make([]string, len(elements))
	for i, el := range elements {
		parts[i] = p.flat(el)
	}
	return strings.Join(parts, ", ")
}
