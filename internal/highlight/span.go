package highlight

import (
	"bytes"

	chroma "github.com/alecthomas/chroma/v2"
)

// Code is a highlighted code block: its source text,
// split into spans that render one after another.
type Code struct {
	Spans []Span
}

// Text returns the source text of the code block.
// Highlighting never adds or drops text,
// so this is the text the block was built from.
func (c *Code) Text() []byte {
	var buf bytes.Buffer
	for _, span := range c.Spans {
		span.writeText(&buf)
	}
	return buf.Bytes()
}

// Span is a part of a code block.
// It's one of *TextSpan and *TokenSpan.
type Span interface {
	writeText(*bytes.Buffer)
}

// TextSpan is plain text in a code block.
type TextSpan struct {
	Text []byte
}

// TokenSpan is text that was tokenized by a [Lexer].
// Each token is rendered inside the class for its type, if any.
type TokenSpan struct {
	Tokens []chroma.Token
}

var (
	_ Span = (*TextSpan)(nil)
	_ Span = (*TokenSpan)(nil)
)

func (s *TextSpan) writeText(buf *bytes.Buffer) { buf.Write(s.Text) }

func (s *TokenSpan) writeText(buf *bytes.Buffer) {
	for _, tok := range s.Tokens {
		buf.WriteString(tok.Value)
	}
}
