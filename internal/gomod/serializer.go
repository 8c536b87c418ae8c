package gomod

import (
	"bytes"
	"fmt"
	"io"
)

// Serializer writes a Manifest back in the go.mod grammar
type Serializer struct {
	grammar *Grammar
}

// NewSerializer creates a serializer for the given grammar
func NewSerializer(g *Grammar) *Serializer {
	if g == nil {
		g = DefaultGrammar()
	}
	return &Serializer{grammar: g}
}

// Serialize renders m with the default go.mod grammar
func Serialize(m *Manifest) string {
	return NewSerializer(nil).Serialize(m)
}

// Serialize renders m as text
func (s *Serializer) Serialize(m *Manifest) string {
	var buf bytes.Buffer
	// bytes.Buffer writes do not fail
	_ = s.Write(&buf, m)
	return buf.String()
}

// Write renders m to w
func (s *Serializer) Write(w io.Writer, m *Manifest) error {
	kw := s.grammar.Keywords
	indent := s.grammar.Indent
	ew := &errWriter{w: w}

	ew.printf("%s %s\n\n", kw.Module, m.Module)
	ew.printf("%s %s\n\n", kw.Go, m.Go)

	for _, b := range m.Blocks {
		ew.printf("%s %s\n", kw.BlockKeyword(b.Kind), kw.Open)
		for _, e := range b.Entries() {
			for _, c := range e.Comments {
				ew.printf("%s%s %s\n", indent, kw.Comment, c)
			}

			switch b.Kind {
			case KindReplace:
				if e.Version == "" {
					ew.printf("%s%s %s %s\n", indent, e.Name, kw.Arrow, e.Replace)
				} else {
					ew.printf("%s%s %s %s %s\n", indent, e.Name, kw.Arrow, e.Replace, e.Version)
				}
			case KindRequire:
				ew.printf("%s%s %s", indent, e.Name, e.Version)
				if e.Indirect {
					ew.printf(" %s", kw.Indirect)
				}
				ew.printf("\n")
			}
		}
		ew.printf("%s\n\n", kw.Close)
	}

	return ew.err
}

// errWriter keeps the first write error and skips later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
