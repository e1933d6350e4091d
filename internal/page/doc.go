// Package page enhances a single HTML documentation page
// before it's published.
//
// [Enhancer] highlights code blocks and adds the controls
// that the browser runtime wires up:
// copy buttons, the mobile menu backdrop,
// and the print button and reading progress bar of content pages.
// Pages work without the runtime;
// the controls are inert until it loads.
package page
