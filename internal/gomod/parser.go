package gomod

import (
	"strings"

	"github.com/quantmind-br/modclean/internal/domain"
)

// Parser converts go.mod text into a Manifest
type Parser struct {
	grammar *Grammar
}

// NewParser creates a parser for the given grammar
func NewParser(g *Grammar) *Parser {
	if g == nil {
		g = DefaultGrammar()
	}
	return &Parser{grammar: g}
}

// Parse parses text with the default go.mod grammar
func Parse(text string) (*Manifest, error) {
	return NewParser(nil).Parse(text)
}

// Parse scans text line by line. The only state kept between lines is the
// currently open block and the comments waiting for the next entry.
func (p *Parser) Parse(text string) (*Manifest, error) {
	g := p.grammar
	m := NewManifest()

	var open *Block
	var comments []string

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		line = strings.TrimSuffix(line, "\r")

		// Entry checks come first so an entry-shaped line is never taken for a comment.
		switch {
		case open != nil && open.Kind == KindRequire && g.isRequireEntry(line):
			e, err := p.requireEntry(line, lineNo)
			if err != nil {
				return nil, err
			}
			e.Comments = comments
			comments = nil
			open.Set(e)

		case open != nil && open.Kind == KindReplace && g.isReplaceEntry(line):
			e, err := p.replaceEntry(line, lineNo)
			if err != nil {
				return nil, err
			}
			e.Comments = comments
			comments = nil
			open.Set(e)

		case open != nil && (g.isRequireEntry(line) || g.isReplaceEntry(line)):
			// entry of the other block kind
			return nil, domain.NewFormatError(lineNo, line)

		case g.isComment(line):
			comments = append(comments, strings.TrimLeft(line, g.CommentCutset))

		case g.requireOpen.MatchString(line):
			open = m.AddBlock(KindRequire)

		case g.replaceOpen.MatchString(line):
			open = m.AddBlock(KindReplace)

		case g.closer.MatchString(line):
			open = nil

		case g.module.MatchString(line):
			m.Module = lastField(line)

		case g.goDirective.MatchString(line):
			m.Go = lastField(line)

		case strings.TrimSpace(line) == "":
			// blank

		case open != nil:
			return nil, domain.NewFormatError(lineNo, line)

		default:
			m.Skipped = append(m.Skipped, SkippedLine{Line: lineNo, Text: line})
		}
	}

	return m, nil
}

func (p *Parser) requireEntry(line string, lineNo int) (*Entry, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, domain.NewFormatError(lineNo, line)
	}

	indirect := false
	marker := strings.Fields(p.grammar.Keywords.Indirect)
	if n := len(fields); len(marker) > 0 && n >= 2+len(marker) {
		indirect = strings.Join(fields[n-len(marker):], " ") == strings.Join(marker, " ")
	}

	return &Entry{
		Name:     fields[0],
		Version:  fields[1],
		Indirect: indirect,
		Line:     lineNo,
	}, nil
}

func (p *Parser) replaceEntry(line string, lineNo int) (*Entry, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[1] != p.grammar.Keywords.Arrow {
		return nil, domain.NewFormatError(lineNo, line)
	}

	e := &Entry{
		Name:    fields[0],
		Replace: fields[2],
		Line:    lineNo,
	}
	if len(fields) >= 4 {
		e.Version = fields[3]
	}
	return e, nil
}

// lastField returns the directive value, or "" when the keyword stands alone
func lastField(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}
