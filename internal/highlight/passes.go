package highlight

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"braces.dev/errtrace"
	"github.com/dlclark/regexp2"
)

// Rule is a single find-and-replace pass of the [Passes] highlighter.
//
// Pattern is an ECMAScript regular expression with at least one group.
// Every match has its first group wrapped in a span with Class.
// Text matched outside the group is kept as-is.
type Rule struct {
	Pattern string
	Class   string
}

// DefaultRules are the rules used by [Passes], in order.
var DefaultRules = []Rule{
	{`(#.*$)`, ClassComment},
	{`(\/\/.*$)`, ClassComment},
	{`(\/\*[\s\S]*?\*\/)`, ClassComment},
	{`("([^"\\]|\\.)*"|'([^'\\]|\\.)*')`, ClassString},
	{`\b(\d+\.?\d*|\.\d+)\b`, ClassNumber},
	{`\b(` + strings.Join(Keywords, "|") + `)\b`, ClassKeyword},
	{`\b(` + strings.Join(Types, "|") + `)\b`, ClassType},
	{`(\w+):`, ClassProperty},
	{`\b(` + strings.Join(Literals, "|") + `)\b`, ClassKeyword},
	{`\b(` + strings.Join(Methods, "|") + `)\b`, ClassFunction},
	{`('?\d{3}'?)`, ClassNumber},
}

// _tag matches the markup inserted by earlier passes.
// Source text is escaped before the first pass,
// so every '<' in the working text starts a tag.
var _tag = regexp.MustCompile(`<[^>]*>`)

// Passes highlights code blocks by applying Rules one after another
// over the whole text.
//
// Later passes see the spans inserted by earlier passes
// and may wrap text that is already wrapped,
// so overlapping matches produce nested or duplicated spans.
// Passes only ever match text between tags,
// never the tags themselves, so the output is well-formed HTML.
//
// A Passes is safe for concurrent use.
type Passes struct {
	// Rules to apply in order. Defaults to DefaultRules.
	Rules []Rule

	// Log receives messages about passes that failed.
	// A failed pass leaves the text unchanged.
	Log *log.Logger

	once     sync.Once
	compiled []compiledRule
	err      error
}

type compiledRule struct {
	re    *regexp2.Regexp
	class string
}

// Compile compiles the rules of this highlighter,
// reporting the first invalid pattern.
//
// Highlight calls Compile implicitly.
func (p *Passes) Compile() error {
	p.once.Do(func() {
		rules := p.Rules
		if rules == nil {
			rules = DefaultRules
		}

		p.compiled = make([]compiledRule, 0, len(rules))
		for _, r := range rules {
			re, err := regexp2.Compile(r.Pattern, regexp2.ECMAScript|regexp2.Multiline)
			if err != nil {
				p.err = errtrace.Wrap(fmt.Errorf("rule %q: %w", r.Pattern, err))
				return
			}
			p.compiled = append(p.compiled, compiledRule{re: re, class: r.Class})
		}
	})
	return p.err
}

// Highlight renders the text of a code block into HTML.
func (p *Passes) Highlight(src string) string {
	out := escapeMarkup(src)
	if err := p.Compile(); err != nil {
		p.logf("highlight: %v", err)
		return out
	}

	for _, rule := range p.compiled {
		next, err := rule.apply(out)
		if err != nil {
			p.logf("highlight: pass %q: %v", rule.re.String(), err)
			continue
		}
		out = next
	}
	return out
}

func (p *Passes) logf(format string, args ...any) {
	if p.Log != nil {
		p.Log.Printf(format, args...)
	}
}

// apply runs this rule over the text between tags in s.
func (r compiledRule) apply(s string) (string, error) {
	var (
		sb   strings.Builder
		last int
	)
	for _, loc := range _tag.FindAllStringIndex(s, -1) {
		if err := r.replace(&sb, s[last:loc[0]]); err != nil {
			return "", err
		}
		sb.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	if err := r.replace(&sb, s[last:]); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r compiledRule) replace(sb *strings.Builder, text string) error {
	if text == "" {
		return nil
	}

	out, err := r.re.ReplaceFunc(text, func(m regexp2.Match) string {
		whole := m.Runes()
		g := m.GroupByNumber(1)
		if g == nil || g.Length == 0 {
			return string(whole)
		}

		start := g.Index - m.Index
		end := start + g.Length
		return string(whole[:start]) +
			`<span class="` + r.class + `">` + string(whole[start:end]) + `</span>` +
			string(whole[end:])
	}, -1, -1)
	if err != nil {
		return err
	}
	sb.WriteString(out)
	return nil
}

// escapeMarkup escapes the characters that would otherwise
// start tags or entities.
// Quotes are left alone so that string rules still match them.
func escapeMarkup(s string) string {
	return _markupEscaper.Replace(s)
}

var _markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
