//go:build js && wasm

package main

import (
	"syscall/js"

	"braces.dev/errtrace"
)

var (
	_window   = js.Global()
	_document = _window.Get("document")
	_root     = _document.Get("documentElement")
)

func query(root js.Value, sel string) js.Value {
	return root.Call("querySelector", sel)
}

func queryAll(root js.Value, sel string) []js.Value {
	list := root.Call("querySelectorAll", sel)
	nodes := make([]js.Value, list.Length())
	for i := range nodes {
		nodes[i] = list.Index(i)
	}
	return nodes
}

// present reports whether a lookup found something.
func present(v js.Value) bool {
	return !v.IsNull() && !v.IsUndefined()
}

// on registers fn as a listener for an event.
// Listeners stay registered for the lifetime of the page.
func on(target js.Value, event string, fn func(ev js.Value)) {
	target.Call("addEventListener", event, js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	}))
}

// onPassive is like on for listeners that never cancel the event.
func onPassive(target js.Value, event string, fn func(ev js.Value)) {
	opts := js.Global().Get("Object").New()
	opts.Set("passive", true)
	target.Call("addEventListener", event, js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	}), opts)
}

func addClass(el js.Value, class string) {
	el.Get("classList").Call("add", class)
}

func setClass(el js.Value, class string, enabled bool) {
	el.Get("classList").Call("toggle", class, enabled)
}

func contains(parent, child js.Value) bool {
	return present(parent) && parent.Call("contains", child).Bool()
}

// jsError converts a rejection reason into an error.
func jsError(reason js.Value) error {
	if !present(reason) {
		return errtrace.New("promise rejected")
	}
	if msg := reason.Get("message"); present(msg) {
		return errtrace.New(msg.String())
	}
	return errtrace.New(reason.Call("toString").String())
}
