package highlight

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	chroma "github.com/alecthomas/chroma/v2"
)

// Classes wrapped around highlighted tokens.
const (
	ClassComment  = "code-comment"
	ClassString   = "code-string"
	ClassNumber   = "code-number"
	ClassKeyword  = "code-keyword"
	ClassType     = "code-type"
	ClassProperty = "code-property"
	ClassFunction = "code-function"
)

// _classes maps token types to their classes.
// Lookups try the exact type, then its subcategory, then its category.
var _classes = map[chroma.TokenType]string{
	chroma.Comment:       ClassComment,
	chroma.LiteralString: ClassString,
	chroma.LiteralNumber: ClassNumber,
	chroma.Keyword:       ClassKeyword,
	chroma.KeywordType:   ClassType,
	chroma.NameAttribute: ClassProperty,
	chroma.NameFunction:  ClassFunction,
}

// ClassOf reports the class used to render tokens of the given type.
// It returns an empty string for tokens rendered as plain text.
func ClassOf(tt chroma.TokenType) string {
	for _, t := range [...]chroma.TokenType{tt, tt.SubCategory(), tt.Category()} {
		if c, ok := _classes[t]; ok {
			return c
		}
	}
	return ""
}

// Highlighter turns code blocks into HTML.
//
// The zero value is ready to use.
// A Highlighter is safe for concurrent use.
type Highlighter struct {
	// Lexer used to tokenize code.
	// Defaults to DocLexer.
	Lexer Lexer

	// Log receives messages about code that could not be tokenized.
	// Such code is rendered as plain text.
	Log *log.Logger
}

// Highlight renders the text of a code block into HTML.
func (h *Highlighter) Highlight(src string) string {
	code, err := h.Lex([]byte(src))
	if err != nil {
		if h.Log != nil {
			h.Log.Printf("highlight: rendering as plain text: %v", err)
		}
		code = &Code{Spans: []Span{&TextSpan{Text: []byte(src)}}}
	}
	return Render(code)
}

// Lex tokenizes the given source into a code block.
func (h *Highlighter) Lex(src []byte) (*Code, error) {
	lexer := h.Lexer
	if lexer == nil {
		lexer = DocLexer
	}

	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return &Code{Spans: []Span{&TokenSpan{Tokens: tokens}}}, nil
}

// Render renders a code block into HTML.
// Text is always escaped.
func Render(code *Code) string {
	if code == nil {
		return ""
	}

	var r codeRenderer
	r.RenderSpans(code.Spans)
	return r.String()
}

type codeRenderer struct{ bytes.Buffer }

func (r *codeRenderer) RenderSpans(spans []Span) {
	for _, span := range spans {
		r.RenderSpan(span)
	}
}

func (r *codeRenderer) RenderSpan(span Span) {
	switch b := span.(type) {
	case *TextSpan:
		template.HTMLEscape(r, b.Text)
	case *TokenSpan:
		for _, tok := range b.Tokens {
			r.renderToken(tok)
		}
	default:
		panic(fmt.Sprintf("unrecognized node type %T", b))
	}
}

func (r *codeRenderer) renderToken(tok chroma.Token) {
	class := ClassOf(tok.Type)
	if class == "" {
		template.HTMLEscape(r, []byte(tok.Value))
		return
	}

	fmt.Fprintf(r, "<span class=%q>", class)
	template.HTMLEscape(r, []byte(tok.Value))
	r.WriteString("</span>")
}
