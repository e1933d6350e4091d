//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"go.abhg.dev/docglow/internal/ui"
)

func (a *app) setupTouch() {
	touch := js.Global().Get("Reflect").Call("has", _window, "ontouchstart").Bool()
	if points := _window.Get("navigator").Get("maxTouchPoints"); present(points) && points.Int() > 0 {
		touch = true
	}
	if !touch {
		return
	}

	addClass(_document.Get("body"), "touch-device")
	size := fmt.Sprintf("%dpx", ui.MinTapTarget)
	for _, el := range queryAll(_document, ".nav-link, .btn, .nav-btn, .print-btn") {
		style := el.Get("style")
		style.Set("minHeight", size)
		style.Set("minWidth", size)
	}
}

func (a *app) setupConnection() {
	conn := _window.Get("navigator").Get("connection")
	if !present(conn) {
		return
	}

	saveData := conn.Get("saveData").Truthy()
	var effectiveType string
	if t := conn.Get("effectiveType"); present(t) {
		effectiveType = t.String()
	}
	if ui.ReduceMotion(saveData, effectiveType) {
		_root.Get("style").Call("setProperty", "--transition", "all 0.1s ease")
		a.log.Printf("slow connection (%v): shortening transitions", effectiveType)
	}
}

func (a *app) setupHeader() {
	header := query(_document, ".header")
	pageHeader := query(_document, ".page-header")
	if !present(header) || !present(pageHeader) {
		return
	}

	adjust := func(js.Value) {
		height := header.Get("offsetHeight").Int()
		pageHeader.Get("style").Set("marginTop", fmt.Sprintf("%dpx", height))
	}
	on(_window, "resize", adjust)
	adjust(js.Null())
}
