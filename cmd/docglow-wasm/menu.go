//go:build js && wasm

package main

import (
	"strconv"
	"syscall/js"

	"go.abhg.dev/docglow/internal/ui"
)

func (a *app) setupMenu() {
	toggle := query(_document, "#navToggle")
	links := query(_document, ".nav-links")
	if !present(toggle) || !present(links) {
		return
	}
	backdrop := query(_document, ".menu-backdrop")
	body := _document.Get("body")

	a.menu = &ui.Menu{
		Breakpoint: a.settings.Breakpoint,
		OnChange: func(s ui.MenuState) {
			setClass(links, "active", s.Open)
			setClass(toggle, "active", s.Open)
			if present(backdrop) {
				setClass(backdrop, "active", s.Open)
			}
			setClass(body, "menu-open", s.Open)
			toggle.Call("setAttribute", "aria-expanded", strconv.FormatBool(s.Open))
			if s.LockScroll {
				body.Get("style").Set("overflow", "hidden")
			} else {
				body.Get("style").Set("overflow", "")
			}
		},
	}

	// A single listener classifies every click
	// so the toggle doesn't also count as a click outside.
	on(_document, "click", func(ev js.Value) {
		target := ev.Get("target")
		var t ui.Target
		switch {
		case contains(toggle, target):
			t = ui.TargetToggle
		case contains(links, target):
			t = ui.TargetMenu
			if link := target.Call("closest", ".nav-link"); present(link) {
				t = ui.TargetLink
			}
		case contains(backdrop, target):
			t = ui.TargetBackdrop
		default:
			t = ui.TargetOutside
		}
		a.menu.HandleClick(_window.Get("innerWidth").Int(), t)
	})
	on(_document, "keydown", func(ev js.Value) {
		a.menu.HandleKey(ev.Get("key").String())
	})
	on(_window, "resize", func(js.Value) {
		a.menu.HandleResize(_window.Get("innerWidth").Int())
	})
}

func (a *app) setupAnchors() {
	for _, link := range queryAll(_document, `a[href^="#"]`) {
		on(link, "click", func(ev js.Value) {
			href := link.Call("getAttribute", "href").String()
			if !ui.IsInternalAnchor(href) {
				return
			}
			target := _document.Call("getElementById", href[1:])
			if !present(target) {
				return
			}
			ev.Call("preventDefault")

			var headerHeight float64
			if header := query(_document, ".header"); present(header) {
				headerHeight = header.Get("offsetHeight").Float()
			}
			top := ui.ScrollTop(
				target.Call("getBoundingClientRect").Get("top").Float(),
				_window.Get("pageYOffset").Float(),
				headerHeight,
			)

			opts := js.Global().Get("Object").New()
			opts.Set("top", top)
			opts.Set("behavior", "smooth")
			_window.Call("scrollTo", opts)

			if a.menu != nil {
				a.menu.Close()
			}
		})
	}
}
