package highlight

import (
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
)

// Words recognized by the highlighters.
//
// These match what API descriptions (OpenAPI documents, HTTP examples)
// on documentation pages typically contain.
var (
	Keywords = []string{
		"openapi", "info", "title", "version", "description", "contact",
		"name", "email", "servers", "url", "paths", "get", "post", "put",
		"delete", "summary", "responses", "content", "schema", "type",
		"properties", "required", "format", "example", "components",
		"schemas", "requestBody",
	}

	Types = []string{
		"string", "integer", "number", "boolean", "object", "array",
		"int64", "date-time",
	}

	Literals = []string{"true", "false", "null", "undefined"}

	Methods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}
)

// DocLexer is a [Lexer] for code blocks on documentation pages.
var DocLexer Lexer = &chromaLexer{l: chroma.Coalesce(_docLexer)}

// Lexer analyzes source code and generates a stream of tokens.
type Lexer interface {
	Lex(src []byte) ([]chroma.Token, error)
}

// chromaLexer builds a [Lexer] from a Chroma lexer.
type chromaLexer struct{ l chroma.Lexer }

// Lex lexically analyzes the given source code using Chroma.
//
// Line endings are preserved as-is.
func (cl *chromaLexer) Lex(src []byte) ([]chroma.Token, error) {
	it, err := cl.l.Tokenise(&chroma.TokeniseOptions{State: "root"}, string(src))
	if err != nil {
		return nil, err
	}
	return it.Tokens(), nil
}

// _docLexer tokenizes the whole block in one pass.
// At each position the first matching rule wins,
// so earlier rules take priority over later ones.
var _docLexer = chroma.MustNewLexer(
	&chroma.Config{
		Name:    "docblock",
		Aliases: []string{"docblock"},
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `/\*[\s\S]*?\*/`, Type: chroma.CommentMultiline},
				{Pattern: `(?:#|//)[^\n]*`, Type: chroma.CommentSingle},
				// Strings are tokenized as a whole first
				// and then split further by the "string" state.
				// An unterminated quote matches neither of these
				// and falls through to plain text.
				{Pattern: `"(?:[^"\\]|\\[\s\S])*"`, Type: chroma.UsingSelf("string")},
				{Pattern: `'(?:[^'\\]|\\[\s\S])*'`, Type: chroma.UsingSelf("string")},
				{Pattern: `(?<![\w.])[1-5]\d{2}(?![\w.])`, Type: chroma.LiteralNumberInteger},
				{Pattern: `(?<!\w)(?:\d+(?:\.\d*)?|\.\d+)\b`, Type: chroma.LiteralNumber},
				{Pattern: words(Keywords...), Type: chroma.Keyword},
				{Pattern: words(Types...), Type: chroma.KeywordType},
				{Pattern: `\w+(?=:)`, Type: chroma.NameAttribute},
				{Pattern: words(Literals...), Type: chroma.KeywordConstant},
				{Pattern: words(Methods...), Type: chroma.NameFunction},
				{Pattern: `\w+`, Type: chroma.Text},
				{Pattern: `\s+`, Type: chroma.Text},
				{Pattern: `[\s\S]`, Type: chroma.Text},
			},
			"string": {
				{Pattern: words(Methods...), Type: chroma.NameFunction},
				{Pattern: `[A-Z]+`, Type: chroma.LiteralString},
				{Pattern: `[^A-Z]+`, Type: chroma.LiteralString},
			},
		}
	},
)

// words builds a pattern matching any of the given words in full.
// The match must not be preceded or followed by a word character.
//
// "date-time" contains a hyphen, so word boundaries alone are not enough
// to rule out matching "date-time" inside "date-times".
func words(ws ...string) string {
	var sb strings.Builder
	sb.WriteString(`(?<![\w-])(?:`)
	for i, w := range ws {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strings.ReplaceAll(w, "-", `\-`))
	}
	sb.WriteString(`)(?![\w-])`)
	return sb.String()
}
