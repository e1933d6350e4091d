//go:build js && wasm

// docglow-wasm is the browser runtime for pages built by docglow.
//
// It's loaded by the docglow.js loader that docglow adds to pages,
// and brings their controls to life:
// the mobile menu, smooth scrolling to anchors, copy and print buttons,
// the reading progress bar, and reveal-on-scroll animations.
// Settings are read from data-docglow-* attributes on the root element.
package main

import (
	"log"
	"os"
	"strconv"
	"syscall/js"
	"time"

	"go.abhg.dev/docglow/internal/ui"
)

func main() {
	logger := log.New(os.Stderr, "docglow: ", 0)

	a := app{
		log:      logger,
		settings: readSettings(),
	}
	addClass(_root, "docglow-js")

	if _document.Get("readyState").String() == "loading" {
		on(_document, "DOMContentLoaded", func(js.Value) { a.start() })
	} else {
		a.start()
	}

	// Event handlers run on the Go side for the lifetime of the page.
	select {}
}

// settings for the runtime, published by docglow on the root element.
type settings struct {
	Breakpoint int
	CopyDelay  time.Duration
}

func readSettings() settings {
	s := settings{
		Breakpoint: ui.DefaultBreakpoint,
		CopyDelay:  ui.DefaultFeedbackDelay,
	}
	if v, err := strconv.Atoi(_root.Call("getAttribute", "data-docglow-breakpoint").String()); err == nil && v > 0 {
		s.Breakpoint = v
	}
	if v, err := strconv.Atoi(_root.Call("getAttribute", "data-docglow-copy-delay").String()); err == nil && v > 0 {
		s.CopyDelay = time.Duration(v) * time.Millisecond
	}
	return s
}

type app struct {
	log      *log.Logger
	settings settings
	menu     *ui.Menu
}

func (a *app) start() {
	a.watchErrors()
	a.setupMenu()
	a.setupAnchors()
	a.setupCopyButtons()
	a.setupPrint()
	a.setupProgress()
	a.setupReveal()
	a.setupTouch()
	a.setupConnection()
	a.setupHeader()
}

func (a *app) watchErrors() {
	on(_window, "error", func(ev js.Value) {
		a.log.Printf("page error: %v", ev.Get("message").String())
	})
}
