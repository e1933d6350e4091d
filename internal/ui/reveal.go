package ui

import "fmt"

// RevealOptions configures when elements are revealed
// as they scroll into view.
type RevealOptions struct {
	// Threshold is the fraction of the element
	// that must be visible.
	Threshold float64

	// BottomMargin shrinks the bottom of the viewport, in pixels,
	// so that elements are revealed a little after they appear.
	BottomMargin float64
}

// DefaultReveal reveals elements once a tenth of them
// is visible at least 50 pixels above the bottom of the viewport.
var DefaultReveal = RevealOptions{Threshold: 0.1, BottomMargin: 50}

// RootMargin formats the options as an IntersectionObserver root margin.
func (o RevealOptions) RootMargin() string {
	return fmt.Sprintf("0px 0px %gpx 0px", -o.BottomMargin)
}

// Visible reports whether an element spanning [top, bottom),
// relative to the top of a viewport of the given height,
// should be revealed.
func (o RevealOptions) Visible(top, bottom, viewportHeight float64) bool {
	rootBottom := viewportHeight - o.BottomMargin
	height := bottom - top
	if height <= 0 {
		return top >= 0 && top <= rootBottom
	}

	visible := min(bottom, rootBottom) - max(top, 0)
	if visible <= 0 {
		return false
	}
	return visible/height >= o.Threshold
}

// Revealer tracks which elements have been revealed.
// Revealed elements stay revealed.
//
// The zero value uses DefaultReveal.
type Revealer[K comparable] struct {
	Options *RevealOptions

	revealed map[K]struct{}
}

// Update records the position of an element,
// reporting whether it was revealed by this update.
func (r *Revealer[K]) Update(key K, top, bottom, viewportHeight float64) bool {
	if _, ok := r.revealed[key]; ok {
		return false
	}

	opts := DefaultReveal
	if r.Options != nil {
		opts = *r.Options
	}
	if !opts.Visible(top, bottom, viewportHeight) {
		return false
	}

	if r.revealed == nil {
		r.revealed = make(map[K]struct{})
	}
	r.revealed[key] = struct{}{}
	return true
}

// Revealed reports whether the element was revealed.
func (r *Revealer[K]) Revealed(key K) bool {
	_, ok := r.revealed[key]
	return ok
}
