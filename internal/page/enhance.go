package page

import (
	"fmt"
	"io"
	"log"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"go.abhg.dev/docglow/internal/highlight"
	"go.abhg.dev/docglow/internal/labels"
	"go.abhg.dev/docglow/internal/relative"
	"go.abhg.dev/docglow/internal/ui"
	"golang.org/x/net/html"
)

// DefaultRevealSelector matches the elements
// that are revealed as they scroll into view.
const DefaultRevealSelector = ".topic-card, .advantage, .type-card, .feature, .code-example"

// DefaultStaticDir is the directory, relative to the site root,
// holding docglow's assets.
const DefaultStaticDir = "_"

// Names of docglow's assets inside the static directory.
const (
	StylesheetName = "docglow.css"
	LoaderName     = "docglow.js"
	WasmExecName   = "wasm_exec.js"
	WasmName       = "docglow.wasm"
)

// Attributes recognized or added by the Enhancer.
const (
	// OptOutAttr set to "off" on a pre or code element
	// leaves the block unhighlighted.
	OptOutAttr = "data-docglow"

	RevealAttr         = "data-reveal"
	BreakpointAttr     = "data-docglow-breakpoint"
	CopyDelayAttr      = "data-docglow-copy-delay"
	LabelCopiedAttr    = "data-label-copied"
	LabelFailedAttr    = "data-label-failed"
	LabelPrintBusyAttr = "data-label-busy"
)

// NoHighlightClass on a pre or code element
// leaves the block unhighlighted.
const NoHighlightClass = "nohighlight"

var (
	_navLinkSel   = cascadia.MustCompile(".nav-link")
	_navToggleSel = cascadia.MustCompile("#navToggle")
	_navLinksSel  = cascadia.MustCompile(".nav-links")
	_codeSel      = cascadia.MustCompile("pre code")
	_preSel       = cascadia.MustCompile("pre")
	_copyBtnSel   = cascadia.MustCompile(".copy-button")
	_backdropSel  = cascadia.MustCompile(".menu-backdrop")
	_contentSel   = cascadia.MustCompile(".content")
	_printSel     = cascadia.MustCompile(".print-btn-container")
	_progressSel  = cascadia.MustCompile(".progress-bar")
	_htmlSel      = cascadia.MustCompile("html")
	_headSel      = cascadia.MustCompile("head")
	_bodySel      = cascadia.MustCompile("body")
	_linkSel      = cascadia.MustCompile("link[href]")
	_scriptSel    = cascadia.MustCompile("script[src]")
)

// Highlighter renders the text of a code block into HTML.
type Highlighter interface {
	Highlight(src string) string
}

var (
	_ Highlighter = (*highlight.Highlighter)(nil)
	_ Highlighter = (*highlight.Passes)(nil)
)

// Settings are runtime settings published on every page
// for the browser runtime to read.
type Settings struct {
	// Breakpoint is the widest viewport, in pixels,
	// that shows the mobile menu.
	Breakpoint int

	// CopyDelay is how long copy buttons show their outcome.
	CopyDelay time.Duration
}

// Info describes the page being enhanced.
type Info struct {
	// Path is the /-separated path of the page
	// relative to the site root, e.g. "guide/api.html".
	Path string
}

// Report summarizes what Enhance changed on a page.
type Report struct {
	ActiveLinks int  // navigation links marked active
	Blocks      int  // code blocks highlighted
	CopyButtons int  // copy buttons added
	PrintChrome bool // whether the page has a print button and progress bar
}

// Enhancer adds docglow's features to HTML documents.
//
// An Enhancer is safe for concurrent use
// once its fields are no longer modified.
type Enhancer struct {
	// Highlighter renders code blocks.
	// Code blocks are left alone if this is nil.
	Highlighter Highlighter

	// Labels picks the text of added controls
	// based on the page language.
	// Defaults to English labels.
	Labels *labels.Set

	// StaticDir is the /-separated directory, relative to the site root,
	// that holds docglow's assets. Defaults to DefaultStaticDir.
	StaticDir string

	// Runtime reports whether the browser runtime is installed.
	// Pages only load it if it is.
	Runtime bool

	// Settings published for the runtime.
	// Ignored unless Runtime is set.
	Settings Settings

	// RevealSelector is a CSS selector list of elements
	// to reveal on scroll. Defaults to DefaultRevealSelector.
	RevealSelector string

	// Log receives debug messages. Discarded if unset.
	Log *log.Logger

	once      sync.Once
	revealSel cascadia.Matcher
	err       error
}

func (e *Enhancer) init() error {
	e.once.Do(func() {
		if e.Log == nil {
			e.Log = log.New(io.Discard, "", 0)
		}
		if e.Labels == nil {
			e.Labels = new(labels.Set)
		}
		if e.StaticDir == "" {
			e.StaticDir = DefaultStaticDir
		}

		sel := e.RevealSelector
		if sel == "" {
			sel = DefaultRevealSelector
		}
		e.revealSel, e.err = cascadia.ParseGroup(sel)
		if e.err != nil {
			e.err = errtrace.Wrap(fmt.Errorf("reveal selector %q: %w", sel, e.err))
		}
	})
	return e.err
}

// Enhance modifies the given document in place.
// Elements that a step needs but the page lacks are skipped.
//
// Enhancing a document that was already enhanced
// doesn't change it further.
func (e *Enhancer) Enhance(doc *html.Node, info Info) (Report, error) {
	if err := e.init(); err != nil {
		return Report{}, err
	}

	root := cascadia.Query(doc, _htmlSel)
	if root == nil {
		return Report{}, errtrace.Wrap(fmt.Errorf("%v: no <html> element", info.Path))
	}
	lang, _ := getAttr(root, "lang")
	lbl := e.Labels.For(lang)
	body := cascadia.Query(doc, _bodySel)

	var report Report
	report.ActiveLinks = markActive(doc, ui.CurrentPage(info.Path))

	if e.Highlighter != nil {
		n, err := e.highlightBlocks(doc)
		if err != nil {
			return report, errtrace.Wrap(err)
		}
		report.Blocks = n
	}

	report.CopyButtons = addCopyButtons(doc, lbl)
	if body != nil {
		addMenuChrome(doc, body, lbl)
		if ui.IsContentPage(info.Path) {
			report.PrintChrome = addPrintChrome(doc, body, lbl)
		}
	}

	for _, n := range cascadia.QueryAll(doc, e.revealSel) {
		setDefaultAttr(n, RevealAttr, "")
	}

	e.addAssets(doc, root, body, info)

	e.Log.Printf("%v: %d links active, %d blocks, %d copy buttons, print=%v",
		info.Path, report.ActiveLinks, report.Blocks, report.CopyButtons, report.PrintChrome)
	return report, nil
}

func markActive(doc *html.Node, current string) int {
	var count int
	for _, link := range cascadia.QueryAll(doc, _navLinkSel) {
		href, _ := getAttr(link, "href")
		if ui.IsActive(current, href) {
			addClass(link, "active")
			count++
		} else {
			removeClass(link, "active")
		}
	}
	return count
}

func (e *Enhancer) highlightBlocks(doc *html.Node) (int, error) {
	var count int
	for _, code := range cascadia.QueryAll(doc, _codeSel) {
		pre := code.Parent
		for pre != nil && pre.Data != "pre" {
			pre = pre.Parent
		}
		if optedOut(code) || (pre != nil && optedOut(pre)) {
			continue
		}

		src := textContent(code)
		nodes, err := html.ParseFragment(strings.NewReader(e.Highlighter.Highlight(src)), code)
		if err != nil {
			return count, errtrace.Wrap(fmt.Errorf("highlight code block %d: %w", count+1, err))
		}

		removeChildren(code)
		for _, n := range nodes {
			code.AppendChild(n)
		}
		if pre != nil {
			addClass(pre, highlight.BlockClass)
		}
		count++
	}
	return count, nil
}

func optedOut(n *html.Node) bool {
	v, _ := getAttr(n, OptOutAttr)
	return v == "off" || hasClass(n, NoHighlightClass)
}

func addCopyButtons(doc *html.Node, lbl labels.Labels) int {
	var count int
	for _, pre := range cascadia.QueryAll(doc, _preSel) {
		if cascadia.Query(pre, _copyBtnSel) != nil {
			continue
		}

		btn := element("button",
			"type", "button",
			"class", "copy-button",
			"title", lbl.CopyTitle,
			"aria-label", lbl.CopyAria,
			LabelCopiedAttr, lbl.Copied,
			LabelFailedAttr, lbl.CopyFailed,
		)
		btn.AppendChild(text(lbl.Copy))
		pre.AppendChild(btn)
		count++
	}
	return count
}

func addMenuChrome(doc, body *html.Node, lbl labels.Labels) {
	if cascadia.Query(body, _backdropSel) == nil {
		body.AppendChild(element("div", "class", "menu-backdrop"))
	}

	toggle := cascadia.Query(doc, _navToggleSel)
	if toggle == nil {
		return
	}
	setDefaultAttr(toggle, "aria-expanded", "false")
	setDefaultAttr(toggle, "aria-label", lbl.Menu)
	if links := cascadia.Query(doc, _navLinksSel); links != nil {
		if id, ok := getAttr(links, "id"); ok && id != "" {
			setDefaultAttr(toggle, "aria-controls", id)
		}
	}
}

// addPrintChrome adds the print button and progress bar,
// reporting whether the page has them afterwards.
func addPrintChrome(doc, body *html.Node, lbl labels.Labels) bool {
	content := cascadia.Query(doc, _contentSel)
	if content == nil {
		return false
	}

	if cascadia.Query(content, _printSel) == nil {
		btn := element("button",
			"type", "button",
			"class", "print-btn",
			LabelPrintBusyAttr, lbl.PrintBusy,
		)
		btn.AppendChild(text(lbl.Print))

		container := element("div", "class", "print-btn-container")
		container.AppendChild(btn)
		prependChild(content, container)
	}

	if cascadia.Query(body, _progressSel) == nil {
		body.AppendChild(element("div",
			"class", "progress-bar",
			"role", "progressbar",
			"aria-valuemin", "0",
			"aria-valuemax", "100",
			"aria-valuenow", "0",
		))
	}
	return true
}

func (e *Enhancer) addAssets(doc, root, body *html.Node, info Info) {
	asset := func(name string) string {
		return relative.Page(info.Path, path.Join(e.StaticDir, name))
	}

	if head := cascadia.Query(doc, _headSel); head != nil {
		href := asset(StylesheetName)
		if !hasAttrValue(cascadia.QueryAll(head, _linkSel), "href", href) {
			head.AppendChild(element("link", "rel", "stylesheet", "href", href))
		}
	}

	if !e.Runtime {
		return
	}

	breakpoint := e.Settings.Breakpoint
	if breakpoint <= 0 {
		breakpoint = ui.DefaultBreakpoint
	}
	delay := e.Settings.CopyDelay
	if delay <= 0 {
		delay = ui.DefaultFeedbackDelay
	}
	setAttr(root, BreakpointAttr, strconv.Itoa(breakpoint))
	setAttr(root, CopyDelayAttr, strconv.FormatInt(delay.Milliseconds(), 10))

	if body == nil {
		return
	}
	scripts := cascadia.QueryAll(doc, _scriptSel)
	for _, name := range []string{WasmExecName, LoaderName} {
		src := asset(name)
		if hasAttrValue(scripts, "src", src) {
			continue
		}
		body.AppendChild(element("script", "src", src, "defer", ""))
	}
}

func hasAttrValue(nodes []*html.Node, key, val string) bool {
	for _, n := range nodes {
		if v, ok := getAttr(n, key); ok && v == val {
			return true
		}
	}
	return false
}
