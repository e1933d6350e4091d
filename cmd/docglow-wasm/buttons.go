//go:build js && wasm

package main

import (
	"context"
	"errors"
	"syscall/js"
	"time"

	"braces.dev/errtrace"
	"go.abhg.dev/docglow/internal/ui"
)

// copyTimeout bounds a single clipboard write.
const copyTimeout = 10 * time.Second

func (a *app) setupCopyButtons() {
	clip := browserClipboard{}
	for _, btn := range queryAll(_document, "pre > .copy-button") {
		pre := btn.Get("parentElement")
		copier := ui.Copier{
			Clipboard: clip,
			Feedback: &ui.Feedback{
				Labels: ui.FeedbackLabels{
					Idle:      btn.Get("textContent").String(),
					Succeeded: attrOr(btn, "data-label-copied", "✅"),
					Failed:    attrOr(btn, "data-label-failed", "❌"),
				},
				Delay:    a.settings.CopyDelay,
				Log:      a.log,
				OnChange: func(b ui.Button) { applyButton(btn, b) },
			},
		}

		on(btn, "click", func(ev js.Value) {
			ev.Call("stopPropagation")
			text := codeText(pre)
			// Clipboard writes wait on a promise,
			// which can't resolve while the handler blocks.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), copyTimeout)
				defer cancel()
				_ = copier.Copy(ctx, text) // logged by Feedback
			}()
		})
	}
}

// codeText returns the text of a code block without its copy button.
func codeText(pre js.Value) string {
	if code := query(pre, "code"); present(code) {
		return code.Get("textContent").String()
	}
	clone := pre.Call("cloneNode", true)
	for _, btn := range queryAll(clone, ".copy-button") {
		btn.Call("remove")
	}
	return clone.Get("textContent").String()
}

func attrOr(el js.Value, name, fallback string) string {
	if v := el.Call("getAttribute", name); present(v) && v.String() != "" {
		return v.String()
	}
	return fallback
}

func applyButton(el js.Value, b ui.Button) {
	el.Set("textContent", b.Label)
	el.Set("disabled", b.Disabled)
	for _, class := range []string{ui.SucceededClass, ui.FailedClass} {
		setClass(el, class, b.Class == class)
	}
}

var errNoClipboard = errors.New("clipboard is not available")

type browserClipboard struct{}

var _ ui.Clipboard = browserClipboard{}

func (browserClipboard) WriteText(ctx context.Context, text string) error {
	clip := _window.Get("navigator").Get("clipboard")
	if !present(clip) {
		return errtrace.Wrap(errNoClipboard)
	}

	// The promise may settle after ctx ends,
	// so the callbacks are released only once it does.
	var resolve, reject js.Func
	result := ui.NewSettlement(func() {
		resolve.Release()
		reject.Release()
	})
	resolve = js.FuncOf(func(js.Value, []js.Value) any {
		result.Settle(nil)
		return nil
	})
	reject = js.FuncOf(func(_ js.Value, args []js.Value) any {
		var reason js.Value
		if len(args) > 0 {
			reason = args[0]
		}
		result.Settle(jsError(reason))
		return nil
	})

	clip.Call("writeText", text).Call("then", resolve, reject)
	return errtrace.Wrap(result.Wait(ctx))
}

func (a *app) setupPrint() {
	btn := query(_document, ".print-btn")

	p := &ui.Printer{
		ForceVisible: forceVisible,
		Print:        func() { _window.Call("print") },
	}
	if present(btn) {
		p.Labels = ui.PrinterLabels{
			Idle: btn.Get("textContent").String(),
			Busy: attrOr(btn, "data-label-busy", "⏳"),
		}
		p.OnChange = func(b ui.Button) { applyButton(btn, b) }
		on(btn, "click", func(js.Value) { p.Prepare() })
	}

	// Printing from the browser menu skips the button,
	// so content hidden by animations is revealed here too.
	on(_window, "beforeprint", func(js.Value) { forceVisible() })
}

func forceVisible() {
	for _, el := range queryAll(_document, "[data-reveal]") {
		addClass(el, "revealed")
		style := el.Get("style")
		style.Set("opacity", "1")
		style.Set("transform", "none")
		style.Set("animation", "none")
	}
}
