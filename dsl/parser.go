package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:inf\b|\d+(?:\.\d+)?(?:/\d+)?)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `;`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
	)
)

// Document is the root AST node of an item-stream file.
type Document struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Statements []*Statement   `parser:"( @@ | Newline | ';' )*"`
}

// Statement is one line of the notation: a setting or an item producer.
type Statement struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Setting *Setting       `parser:"  @@"`
	Shape   *Shape         `parser:"| @@"`
	Box     *BoxItem       `parser:"| @@"`
	Glue    *GlueItem      `parser:"| @@"`
	Penalty *PenaltyItem   `parser:"| @@"`
	Text    *Text          `parser:"| @@"`
	Finish  bool           `parser:"| @'finish'"`
}

// Kind returns the human-readable statement type.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Setting != nil:
		return s.Setting.Key
	case s.Shape != nil:
		return "shape"
	case s.Box != nil:
		return "box"
	case s.Glue != nil:
		return "glue"
	case s.Penalty != nil:
		return "penalty"
	case s.Text != nil:
		return "text"
	case s.Finish:
		return "finish"
	default:
		return "unknown"
	}
}

// Setting assigns a layout parameter (width 7, algorithm first-fit, ...).
type Setting struct {
	Key   string `parser:"@( 'width' | 'threshold' | 'looseness' | 'flagged-demerit' | 'fitness-demerit' | 'overflow' | 'algorithm' )"`
	Value string `parser:"@( Number | Ident )"`
}

// Shape lists per-line widths.
type Shape struct {
	Widths []string `parser:"'shape' @Number+"`
}

// BoxItem is `box <width> ["label"]`.
type BoxItem struct {
	Width string        `parser:"'box' @Number"`
	Label StringLiteral `parser:"@String?"`
}

// GlueItem is `glue <width> [stretch <y>] [shrink <z>] ["label"]`.
type GlueItem struct {
	Width   string        `parser:"'glue' @Number"`
	Stretch string        `parser:"( 'stretch' @Number )?"`
	Shrink  string        `parser:"( 'shrink' @Number )?"`
	Label   StringLiteral `parser:"@String?"`
}

// PenaltyItem is `penalty <cost> [width <w>] [flagged] ["label"]`.
type PenaltyItem struct {
	Cost    string        `parser:"'penalty' @Number"`
	Width   string        `parser:"( 'width' @Number )?"`
	Flagged bool          `parser:"@'flagged'?"`
	Label   StringLiteral `parser:"@String?"`
}

// Text expands to one box per character.
type Text struct {
	Value StringLiteral `parser:"'text' @String"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
