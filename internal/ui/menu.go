package ui

// DefaultBreakpoint is the viewport width in pixels
// at or below which the navigation is shown as a mobile menu.
const DefaultBreakpoint = 968

// Target identifies what a click landed on, relative to the menu.
type Target int

// Click targets.
const (
	// TargetOutside is anything that isn't part of the menu.
	TargetOutside Target = iota

	// TargetToggle is the button that opens and closes the menu.
	TargetToggle

	// TargetMenu is the menu itself, outside of its links.
	TargetMenu

	// TargetLink is a navigation link inside the menu.
	TargetLink

	// TargetBackdrop is the overlay dimming the page behind the menu.
	TargetBackdrop
)

// MenuState is the presentation of a mobile menu.
type MenuState struct {
	// Open reports whether the menu, its toggle, and the backdrop
	// are shown as active.
	Open bool

	// LockScroll reports whether scrolling of the page body
	// should be disabled.
	LockScroll bool
}

// Menu tracks whether the mobile navigation menu is open.
//
// The zero value is a closed menu using DefaultBreakpoint.
type Menu struct {
	// Breakpoint is the widest viewport, in pixels,
	// that is considered mobile.
	// Defaults to DefaultBreakpoint.
	Breakpoint int

	// OnChange, if set, is called after every change of state.
	OnChange func(MenuState)

	open bool
}

// IsOpen reports whether the menu is open.
func (m *Menu) IsOpen() bool { return m.open }

// State reports the current presentation of the menu.
func (m *Menu) State() MenuState {
	return MenuState{Open: m.open, LockScroll: m.open}
}

// Toggle opens a closed menu, or closes an open one.
func (m *Menu) Toggle() {
	m.set(!m.open)
}

// Close closes the menu. It's a no-op if the menu is already closed.
func (m *Menu) Close() {
	m.set(false)
}

// HandleKey handles a key press anywhere on the page.
// Escape closes the menu.
func (m *Menu) HandleKey(key string) {
	if key == "Escape" {
		m.Close()
	}
}

// HandleResize handles a change in the viewport width.
// The menu is always closed when the viewport grows past the breakpoint.
func (m *Menu) HandleResize(width int) {
	if width > m.breakpoint() {
		m.Close()
	}
}

// HandleClick handles a click on the given target
// with the viewport at the given width.
func (m *Menu) HandleClick(width int, target Target) {
	switch target {
	case TargetToggle:
		m.Toggle()
	case TargetLink, TargetBackdrop:
		m.Close()
	case TargetOutside:
		// Clicking away only dismisses the menu on mobile.
		if width <= m.breakpoint() {
			m.Close()
		}
	}
}

func (m *Menu) breakpoint() int {
	if m.Breakpoint > 0 {
		return m.Breakpoint
	}
	return DefaultBreakpoint
}

func (m *Menu) set(open bool) {
	if m.open == open {
		return
	}
	m.open = open
	if m.OnChange != nil {
		m.OnChange(m.State())
	}
}
