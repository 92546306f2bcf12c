package sources

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/evaluator"
	"github.com/funvibe/comprex/internal/marshal"
)

// File reads Path as a list of lines or as a YAML document.
type File struct {
	Path   string
	Format string
}

func (f *File) Load(_ context.Context, _ *evaluator.Environment) (evaluator.Object, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}

	switch f.Format {
	case config.FormatLines:
		var lines []evaluator.Object
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			lines = append(lines, evaluator.NewString(sc.Text()))
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Path, err)
		}
		return evaluator.NewList(lines), nil
	case config.FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.Path, err)
		}
		obj, err := marshal.FromYAML(&doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unknown file format %q (want %s or %s)", f.Format, config.FormatLines, config.FormatYAML)
	}
}
