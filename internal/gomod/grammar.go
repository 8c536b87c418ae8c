package gomod

import (
	"fmt"
	"regexp"
)

// go.mod keyword literals
const (
	KeywordModule  = "module"
	KeywordGo      = "go"
	KeywordRequire = "require"
	KeywordReplace = "replace"
	KeywordArrow   = "=>"
	MarkerIndirect = "// indirect"
	MarkerComment  = "//"
	DelimOpen      = "("
	DelimClose     = ")"
)

// Keywords holds the literal tokens of the manifest grammar
type Keywords struct {
	Module   string
	Go       string
	Require  string
	Replace  string
	Arrow    string
	Indirect string
	Comment  string
	Open     string
	Close    string
}

// DefaultKeywords returns the go.mod keywords
func DefaultKeywords() Keywords {
	return Keywords{
		Module:   KeywordModule,
		Go:       KeywordGo,
		Require:  KeywordRequire,
		Replace:  KeywordReplace,
		Arrow:    KeywordArrow,
		Indirect: MarkerIndirect,
		Comment:  MarkerComment,
		Open:     DelimOpen,
		Close:    DelimClose,
	}
}

// BlockKeyword returns the keyword that opens a block of kind
func (k Keywords) BlockKeyword(kind Kind) string {
	if kind == KindReplace {
		return k.Replace
	}
	return k.Require
}

// Grammar is the compiled line grammar used by Parser and Serializer
type Grammar struct {
	Keywords Keywords

	// CommentCutset is stripped from the left of comment lines
	CommentCutset string
	// Indent prefixes every line written inside a block
	Indent string

	module        *regexp.Regexp
	goDirective   *regexp.Regexp
	requireOpen   *regexp.Regexp
	replaceOpen   *regexp.Regexp
	closer        *regexp.Regexp
	comment       *regexp.Regexp
	commentLed    *regexp.Regexp
	requireEntry  *regexp.Regexp
	overrideShape *regexp.Regexp
	replaceEntry  *regexp.Regexp
	localReplace  *regexp.Regexp
}

// NewGrammar compiles the line patterns for the given keywords
func NewGrammar(kw Keywords) (*Grammar, error) {
	q := regexp.QuoteMeta
	g := &Grammar{
		Keywords:      kw,
		CommentCutset: "\t/ ",
		Indent:        "\t",
	}
	patterns := []struct {
		dst     **regexp.Regexp
		pattern string
	}{
		{&g.module, `^` + q(kw.Module) + ` .*$`},
		{&g.goDirective, `^` + q(kw.Go) + ` .*$`},
		{&g.requireOpen, `^` + q(kw.Require) + ` ` + q(kw.Open) + `\s*$`},
		{&g.replaceOpen, `^` + q(kw.Replace) + ` ` + q(kw.Open) + `\s*$`},
		{&g.closer, `^\s*` + q(kw.Close) + `\s*$`},
		{&g.comment, q(kw.Comment)},
		{&g.commentLed, `^\s*` + q(kw.Comment)},
		{&g.requireEntry, `^.+ v.+$`},
		{&g.overrideShape, `^.+ ` + q(kw.Arrow) + ` .+`},
		{&g.replaceEntry, `^.+ ` + q(kw.Arrow) + ` .+ v.+$`},
		{&g.localReplace, `^\s*\S+ ` + q(kw.Arrow) + ` \S+\s*$`},
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p.pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid grammar pattern %q: %w", p.pattern, err)
		}
		*p.dst = re
	}
	return g, nil
}

// DefaultGrammar returns the go.mod grammar
func DefaultGrammar() *Grammar {
	g, err := NewGrammar(DefaultKeywords())
	if err != nil {
		panic(err)
	}
	return g
}

// Lines starting with the comment marker are commented-out entries, not entries.
func (g *Grammar) isRequireEntry(line string) bool {
	return g.requireEntry.MatchString(line) &&
		!g.overrideShape.MatchString(line) &&
		!g.commentLed.MatchString(line)
}

func (g *Grammar) isReplaceEntry(line string) bool {
	if g.commentLed.MatchString(line) {
		return false
	}
	return g.replaceEntry.MatchString(line) || g.localReplace.MatchString(line)
}

func (g *Grammar) isComment(line string) bool {
	return g.comment.MatchString(line)
}
