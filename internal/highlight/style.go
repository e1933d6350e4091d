package highlight

import (
	"fmt"
	"io"

	"braces.dev/errtrace"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// PlainStyle is a minimal syntax highlighting style for Chroma.
// It leaves most text as-is, and fades comments ever so slightly.
var PlainStyle = chroma.MustNewStyle("plain", map[chroma.TokenType]string{
	chroma.Comment:    "#666666",
	chroma.PreWrapper: "bg:#eeeeee",
	chroma.Background: "bg:#eeeeee",
})

func init() {
	styles.Register(PlainStyle)
}

// BlockClass is added to <pre> elements holding highlighted code.
const BlockClass = "docglow"

// _cssOrder lists the token type whose style entry
// is used for each class.
var _cssOrder = []struct {
	class string
	token chroma.TokenType
}{
	{ClassComment, chroma.Comment},
	{ClassString, chroma.LiteralString},
	{ClassNumber, chroma.LiteralNumber},
	{ClassKeyword, chroma.Keyword},
	{ClassType, chroma.KeywordType},
	{ClassProperty, chroma.NameAttribute},
	{ClassFunction, chroma.NameFunction},
}

// LookupStyle returns the registered Chroma style with the given name.
func LookupStyle(name string) (*chroma.Style, error) {
	style, ok := styles.Registry[name]
	if !ok {
		return nil, errtrace.Wrap(fmt.Errorf("unknown style %q", name))
	}
	return style, nil
}

// WriteCSS writes CSS rules that style the highlight classes
// with the given Chroma style.
//
// Token entries only list what differs from the background
// so that highlighted spans don't repaint it.
func WriteCSS(w io.Writer, style *chroma.Style) error {
	bg := style.Get(chroma.Background)
	if css := chromahtml.StyleEntryToCSS(bg); css != "" {
		if _, err := fmt.Fprintf(w, "pre.%s { %s }\n", BlockClass, css); err != nil {
			return errtrace.Wrap(err)
		}
	}

	for _, c := range _cssOrder {
		css := chromahtml.StyleEntryToCSS(style.Get(c.token).Sub(bg))
		if css == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ".%s { %s }\n", c.class, css); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}
