// Package ui holds the interactive behavior of enhanced documentation pages
// as plain state controllers, independent of the browser.
//
// Controllers are driven by discrete events (clicks, key presses,
// resizes, clipboard outcomes) and report how the page should look
// through OnChange callbacks.
// The WebAssembly runtime binds them to the DOM.
package ui
