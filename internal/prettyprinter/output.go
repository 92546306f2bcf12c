package prettyprinter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/evaluator"
	"github.com/funvibe/comprex/internal/marshal"
)

// ColorEnabled resolves a colour mode for out. In auto mode colour is used
// only on a terminal, and never when NO_COLOR is set or TERM is dumb.
func ColorEnabled(mode string, out io.Writer, getenv func(string) string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	// NO_COLOR convention: https://no-color.org/
	if getenv("NO_COLOR") != "" || getenv("TERM") == "dumb" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer prints named results in the lines or yaml format.
type Writer struct {
	out    io.Writer
	format string
	color  bool
	width  int
	enc    *yaml.Encoder
}

func NewWriter(out io.Writer, format string, color bool) (*Writer, error) {
	switch format {
	case config.FormatLines, config.FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, config.FormatLines, config.FormatYAML)
	}
	return &Writer{out: out, format: format, color: color && format == config.FormatLines, width: 80}, nil
}

// SetWidth sets the line width of the lines format; 0 disables wrapping.
func (w *Writer) SetWidth(width int) {
	w.width = width
}

// Write prints one result. An empty name prints the bare value.
func (w *Writer) Write(name string, obj evaluator.Object) error {
	if w.format == config.FormatYAML {
		return w.writeYAML(name, obj)
	}

	p := NewValuePrinterWithWidth(w.width, w.color)
	if name != "" {
		p.write(name+" = ", len(name)+3)
	}
	p.Print(obj)
	_, err := io.WriteString(w.out, p.String()+"\n")
	return err
}

func (w *Writer) writeYAML(name string, obj evaluator.Object) error {
	if w.enc == nil {
		w.enc = yaml.NewEncoder(w.out)
	}
	node := marshal.ToYAML(obj)
	if name != "" {
		node = &yaml.Node{
			Kind:    yaml.MappingNode,
			Tag:     "!!map",
			Content: []*yaml.Node{{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, node},
		}
	}
	return w.enc.Encode(node)
}

// Close flushes buffered yaml output. Later Writes start a new stream.
func (w *Writer) Close() error {
	if w.enc == nil {
		return nil
	}
	err := w.enc.Close()
	w.enc = nil
	return err
}

// Describe is a one-line summary of a value's shape, e.g. "List of 3".
func Describe(obj evaluator.Object) string {
	var b strings.Builder
	b.WriteString(evaluator.TypeName(obj))
	switch o := obj.(type) {
	case *evaluator.List:
		fmt.Fprintf(&b, " of %d", o.Len())
	case *evaluator.Map:
		fmt.Fprintf(&b, " of %d", o.Len())
	case *evaluator.Tuple:
		fmt.Fprintf(&b, " of %d", len(o.Elements))
	}
	return b.String()
}
