package page

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/docglow/internal/highlight"
	"go.abhg.dev/docglow/internal/iotest"
	"go.abhg.dev/docglow/internal/labels"
	"golang.org/x/net/html"
)

type highlightFunc func(string) string

func (f highlightFunc) Highlight(src string) string { return f(src) }

// upperHighlighter wraps the whole block in a single keyword span.
var upperHighlighter = highlightFunc(func(src string) string {
	return `<span class="code-keyword">` + template.HTMLEscapeString(strings.ToUpper(src)) + `</span>`
})

func parse(t testing.TB, s string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func render(t testing.TB, n *html.Node) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, n))
	return buf.String()
}

func innerHTML(t testing.TB, n *html.Node) string {
	t.Helper()

	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&buf, c))
	}
	return buf.String()
}

func query(t testing.TB, n *html.Node, sel string) *html.Node {
	t.Helper()

	found := cascadia.Query(n, cascadia.MustCompile(sel))
	require.NotNil(t, found, "no match for %q", sel)
	return found
}

func queryAll(n *html.Node, sel string) []*html.Node {
	return cascadia.QueryAll(n, cascadia.MustCompile(sel))
}

func attr(n *html.Node, key string) string {
	v, _ := getAttr(n, key)
	return v
}

func newEnhancer(t testing.TB) *Enhancer {
	return &Enhancer{
		Highlighter: upperHighlighter,
		Log:         iotest.Logger(t),
	}
}

func TestEnhancer_activeNav(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc       string
		path       string
		wantActive []string // hrefs
	}{
		{
			desc:       "content page",
			path:       "guide/api.html",
			wantActive: []string{"api.html"},
		},
		{
			desc:       "root index",
			path:       "index.html",
			wantActive: []string{"index.html"},
		},
		{
			desc: "no match",
			path: "other.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, `<html><body><nav>
				<a class="nav-link" href="index.html">Home</a>
				<a class="nav-link active" href="api.html">API</a>
				<a class="nav-link" href="../index.html">Up</a>
			</nav></body></html>`)

			report, err := newEnhancer(t).Enhance(doc, Info{Path: tt.path})
			require.NoError(t, err)

			var got []string
			for _, link := range queryAll(doc, ".nav-link.active") {
				got = append(got, attr(link, "href"))
			}
			assert.Equal(t, tt.wantActive, got)
			assert.Equal(t, len(tt.wantActive), report.ActiveLinks)
		})
	}
}

func TestEnhancer_highlight(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body>
		<pre><code>get &lt;a&gt;</code></pre>
		<pre data-docglow="off"><code>skipped</code></pre>
		<pre><code class="nohighlight">also skipped</code></pre>
		<code>inline</code>
	</body></html>`)

	report, err := newEnhancer(t).Enhance(doc, Info{Path: "guide.html"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Blocks)

	codes := queryAll(doc, "pre code")
	require.Len(t, codes, 3)
	assert.Equal(t, `<span class="code-keyword">GET &lt;A&gt;</span>`, innerHTML(t, codes[0]))
	assert.Equal(t, "skipped", innerHTML(t, codes[1]))
	assert.Equal(t, "also skipped", innerHTML(t, codes[2]))

	pres := queryAll(doc, "pre")
	assert.True(t, hasClass(pres[0], highlight.BlockClass))
	assert.False(t, hasClass(pres[1], highlight.BlockClass))

	assert.Equal(t, "inline", innerHTML(t, query(t, doc, "body > code")))
}

func TestEnhancer_highlightTokens(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body><pre><code>"GET /users" → 200</code></pre></body></html>`)

	e := &Enhancer{
		Highlighter: &highlight.Highlighter{Log: iotest.Logger(t)},
	}
	_, err := e.Enhance(doc, Info{Path: "index.html"})
	require.NoError(t, err)

	code := query(t, doc, "pre code")
	assert.Equal(t, "GET", textContent(query(t, code, ".code-function")))
	assert.Equal(t, "200", textContent(query(t, code, ".code-number")))
	assert.Equal(t, `"GET /users" → 200`, textContent(code))
}

func TestEnhancer_noHighlighter(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body><pre><code>x := 1</code></pre></body></html>`)

	report, err := (&Enhancer{}).Enhance(doc, Info{Path: "index.html"})
	require.NoError(t, err)
	assert.Zero(t, report.Blocks)
	assert.Equal(t, "x := 1", innerHTML(t, query(t, doc, "pre code")))

	// Copy buttons don't depend on highlighting.
	assert.Equal(t, 1, report.CopyButtons)
}

func TestEnhancer_copyButtons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc       string
		lang       string
		wantLabels labels.Labels
	}{
		{desc: "default", wantLabels: labels.English},
		{desc: "english", lang: "en-US", wantLabels: labels.English},
		{desc: "russian", lang: "ru", wantLabels: labels.Russian},
		{desc: "unsupported", lang: "ja", wantLabels: labels.English},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, `<html lang="`+tt.lang+`"><body>
				<pre><code>one</code></pre>
				<pre><code>two</code><button class="copy-button">mine</button></pre>
			</body></html>`)

			report, err := newEnhancer(t).Enhance(doc, Info{Path: "index.html"})
			require.NoError(t, err)
			assert.Equal(t, 1, report.CopyButtons)

			buttons := queryAll(doc, "pre > button.copy-button")
			require.Len(t, buttons, 2)

			btn := buttons[0]
			assert.Equal(t, "button", attr(btn, "type"))
			assert.Equal(t, tt.wantLabels.Copy, textContent(btn))
			assert.Equal(t, tt.wantLabels.CopyTitle, attr(btn, "title"))
			assert.Equal(t, tt.wantLabels.CopyAria, attr(btn, "aria-label"))
			assert.Equal(t, tt.wantLabels.Copied, attr(btn, LabelCopiedAttr))
			assert.Equal(t, tt.wantLabels.CopyFailed, attr(btn, LabelFailedAttr))

			assert.Equal(t, "mine", textContent(buttons[1]))
		})
	}
}

func TestEnhancer_menuChrome(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body>
		<button id="navToggle">☰</button>
		<ul class="nav-links" id="primary-nav"></ul>
	</body></html>`)

	_, err := newEnhancer(t).Enhance(doc, Info{Path: "index.html"})
	require.NoError(t, err)

	assert.Len(t, queryAll(doc, "body > .menu-backdrop"), 1)

	toggle := query(t, doc, "#navToggle")
	assert.Equal(t, "false", attr(toggle, "aria-expanded"))
	assert.Equal(t, "primary-nav", attr(toggle, "aria-controls"))
	assert.Equal(t, labels.English.Menu, attr(toggle, "aria-label"))
}

func TestEnhancer_menuChromeKeepsAttributes(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body>
		<button id="navToggle" aria-label="Menu">☰</button>
		<ul class="nav-links"></ul>
		<div class="menu-backdrop"></div>
	</body></html>`)

	_, err := newEnhancer(t).Enhance(doc, Info{Path: "index.html"})
	require.NoError(t, err)

	assert.Len(t, queryAll(doc, ".menu-backdrop"), 1)

	toggle := query(t, doc, "#navToggle")
	assert.Equal(t, "Menu", attr(toggle, "aria-label"))
	_, ok := getAttr(toggle, "aria-controls")
	assert.False(t, ok, "nav links without an id")
}

func TestEnhancer_printChrome(t *testing.T) {
	t.Parallel()

	const page = `<html><body>
		<div class="content"><h1>Title</h1></div>
	</body></html>`

	t.Run("content page", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, page)
		report, err := newEnhancer(t).Enhance(doc, Info{Path: "guide/api.html"})
		require.NoError(t, err)
		assert.True(t, report.PrintChrome)

		content := query(t, doc, ".content")
		first := content.FirstChild
		require.NotNil(t, first)
		assert.True(t, hasClass(first, "print-btn-container"))

		btn := query(t, first, "button.print-btn")
		assert.Equal(t, labels.English.Print, textContent(btn))
		assert.Equal(t, labels.English.PrintBusy, attr(btn, LabelPrintBusyAttr))

		bar := query(t, doc, "body > .progress-bar")
		assert.Equal(t, "progressbar", attr(bar, "role"))
		assert.Equal(t, "0", attr(bar, "aria-valuemin"))
		assert.Equal(t, "100", attr(bar, "aria-valuemax"))
		assert.Equal(t, "0", attr(bar, "aria-valuenow"))
	})

	for _, path := range []string{"index.html", "guide/index.html"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, page)
			report, err := newEnhancer(t).Enhance(doc, Info{Path: path})
			require.NoError(t, err)
			assert.False(t, report.PrintChrome)
			assert.Empty(t, queryAll(doc, ".print-btn"))
			assert.Empty(t, queryAll(doc, ".progress-bar"))
		})
	}

	t.Run("no content", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body><p>hi</p></body></html>`)
		report, err := newEnhancer(t).Enhance(doc, Info{Path: "about.html"})
		require.NoError(t, err)
		assert.False(t, report.PrintChrome)
		assert.Empty(t, queryAll(doc, ".progress-bar"))
	})
}

func TestEnhancer_reveal(t *testing.T) {
	t.Parallel()

	const page = `<html><body>
		<div class="feature">A</div>
		<div class="topic-card">B</div>
		<div class="custom">C</div>
	</body></html>`

	t.Run("default", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, page)
		_, err := newEnhancer(t).Enhance(doc, Info{Path: "index.html"})
		require.NoError(t, err)

		var got []string
		for _, n := range queryAll(doc, "[data-reveal]") {
			got = append(got, textContent(n))
		}
		assert.Equal(t, []string{"A", "B"}, got)
	})

	t.Run("custom", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, page)
		e := newEnhancer(t)
		e.RevealSelector = ".custom"
		_, err := e.Enhance(doc, Info{Path: "index.html"})
		require.NoError(t, err)

		nodes := queryAll(doc, "[data-reveal]")
		require.Len(t, nodes, 1)
		assert.Equal(t, "C", textContent(nodes[0]))
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		e := newEnhancer(t)
		e.RevealSelector = "[[["
		_, err := e.Enhance(parse(t, page), Info{Path: "index.html"})
		require.Error(t, err)
		assert.ErrorContains(t, err, "reveal selector")
	})
}

func TestEnhancer_assets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc    string
		path    string
		static  string
		runtime bool

		wantCSS     string
		wantScripts []string
	}{
		{
			desc:    "root",
			path:    "index.html",
			wantCSS: "_/docglow.css",
		},
		{
			desc:    "nested",
			path:    "guide/deep/api.html",
			wantCSS: "../../_/docglow.css",
		},
		{
			desc:    "static dir",
			path:    "guide/api.html",
			static:  "assets/docglow",
			wantCSS: "../assets/docglow/docglow.css",
		},
		{
			desc:        "runtime",
			path:        "guide/api.html",
			runtime:     true,
			wantCSS:     "../_/docglow.css",
			wantScripts: []string{"../_/wasm_exec.js", "../_/docglow.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, `<html><head>
				<link rel="stylesheet" href="site.css">
			</head><body><script src="site.js"></script></body></html>`)

			e := newEnhancer(t)
			e.StaticDir = tt.static
			e.Runtime = tt.runtime
			_, err := e.Enhance(doc, Info{Path: tt.path})
			require.NoError(t, err)

			links := queryAll(doc, "head > link[rel=stylesheet]")
			require.Len(t, links, 2)
			assert.Equal(t, tt.wantCSS, attr(links[1], "href"))

			var scripts []string
			for _, s := range queryAll(doc, "body > script[defer]") {
				scripts = append(scripts, attr(s, "src"))
			}
			assert.Equal(t, tt.wantScripts, scripts)
		})
	}
}

func TestEnhancer_settings(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body></body></html>`)
		e := newEnhancer(t)
		e.Runtime = true
		_, err := e.Enhance(doc, Info{Path: "index.html"})
		require.NoError(t, err)

		root := query(t, doc, "html")
		assert.Equal(t, "968", attr(root, BreakpointAttr))
		assert.Equal(t, "2000", attr(root, CopyDelayAttr))
	})

	t.Run("custom", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body></body></html>`)
		e := newEnhancer(t)
		e.Runtime = true
		e.Settings = Settings{Breakpoint: 720, CopyDelay: 1500 * time.Millisecond}
		_, err := e.Enhance(doc, Info{Path: "index.html"})
		require.NoError(t, err)

		root := query(t, doc, "html")
		assert.Equal(t, "720", attr(root, BreakpointAttr))
		assert.Equal(t, "1500", attr(root, CopyDelayAttr))
	})

	t.Run("no runtime", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body></body></html>`)
		_, err := newEnhancer(t).Enhance(doc, Info{Path: "index.html"})
		require.NoError(t, err)

		_, ok := getAttr(query(t, doc, "html"), BreakpointAttr)
		assert.False(t, ok)
	})
}

func TestEnhancer_idempotent(t *testing.T) {
	t.Parallel()

	const page = `<!DOCTYPE html>
<html lang="en"><head><title>API</title></head><body>
<button id="navToggle">☰</button>
<ul class="nav-links" id="nav"><li><a class="nav-link" href="api.html">API</a></li></ul>
<div class="content">
<div class="feature">Fast</div>
<pre><code>// list users
GET /users?limit=10
{"id": 42, "active": true}</code></pre>
</div>
</body></html>`

	e := &Enhancer{
		Highlighter: &highlight.Highlighter{},
		Runtime:     true,
		Log:         iotest.Logger(t),
	}

	doc := parse(t, page)
	_, err := e.Enhance(doc, Info{Path: "guide/api.html"})
	require.NoError(t, err)
	once := render(t, doc)

	doc = parse(t, once)
	report, err := e.Enhance(doc, Info{Path: "guide/api.html"})
	require.NoError(t, err)
	twice := render(t, doc)

	assert.Equal(t, once, twice)
	assert.Zero(t, report.CopyButtons)
	assert.Equal(t, 1, report.Blocks)
	assert.True(t, report.PrintChrome)
}

func TestEnhancer_noHTMLElement(t *testing.T) {
	t.Parallel()

	_, err := newEnhancer(t).Enhance(&html.Node{Type: html.DocumentNode}, Info{Path: "x.html"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "no <html> element")
}
