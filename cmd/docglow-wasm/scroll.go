//go:build js && wasm

package main

import (
	"fmt"
	"strconv"
	"syscall/js"

	"go.abhg.dev/docglow/internal/ui"
)

func (a *app) setupProgress() {
	bar := query(_document, ".progress-bar")
	if !present(bar) {
		return
	}

	update := func(js.Value) {
		scrollTop := _window.Get("pageYOffset").Float()
		if scrollTop == 0 {
			scrollTop = _root.Get("scrollTop").Float()
		}
		percent, now := ui.Progress(
			scrollTop,
			_root.Get("scrollHeight").Float(),
			_window.Get("innerHeight").Float(),
		)
		bar.Get("style").Set("width", fmt.Sprintf("%g%%", percent))
		bar.Call("setAttribute", "aria-valuenow", strconv.Itoa(now))
	}
	onPassive(_window, "scroll", update)
	on(_window, "resize", update)
	update(js.Null())
}

func (a *app) setupReveal() {
	elements := queryAll(_document, "[data-reveal]")
	if len(elements) == 0 {
		return
	}
	opts := ui.DefaultReveal

	if observer := js.Global().Get("IntersectionObserver"); present(observer) {
		var obs js.Value
		callback := js.FuncOf(func(_ js.Value, args []js.Value) any {
			entries := args[0]
			for i := range entries.Length() {
				entry := entries.Index(i)
				if !entry.Get("isIntersecting").Bool() {
					continue
				}
				target := entry.Get("target")
				addClass(target, "revealed")
				obs.Call("unobserve", target)
			}
			return nil
		})

		cfg := js.Global().Get("Object").New()
		cfg.Set("threshold", opts.Threshold)
		cfg.Set("rootMargin", opts.RootMargin())
		obs = observer.New(callback, cfg)
		for _, el := range elements {
			obs.Call("observe", el)
		}
		return
	}

	// Without IntersectionObserver, positions are checked on scroll.
	revealer := ui.Revealer[int]{Options: &opts}
	check := func(js.Value) {
		height := _window.Get("innerHeight").Float()
		for i, el := range elements {
			rect := el.Call("getBoundingClientRect")
			if revealer.Update(i, rect.Get("top").Float(), rect.Get("bottom").Float(), height) {
				addClass(el, "revealed")
			}
		}
	}
	onPassive(_window, "scroll", check)
	on(_window, "resize", check)
	check(js.Null())
}
