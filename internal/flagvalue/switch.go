package flagvalue

import "flag"

// SwitchOn is held by a [Switch] passed without a value.
const SwitchOn = "true"

// Switch is a string flag that may also be passed bare,
// as "-x" instead of "-x=value".
// "-x=false" turns the switch back off.
//
// The zero value is a switch that is off.
type Switch string

var _ flag.Getter = (*Switch)(nil)

// Get returns the raw value of the switch.
func (s *Switch) Get() any { return string(*s) }

// String returns the raw value of the switch.
func (s *Switch) String() string { return string(*s) }

// IsBoolFlag marks this as a flag
// that doesn't require a value.
func (*Switch) IsBoolFlag() bool { return true }

// Set receives the value for this flag.
func (s *Switch) Set(v string) error {
	if v == "false" {
		v = ""
	}
	*s = Switch(v)
	return nil
}

// Enabled reports whether the switch was passed at all.
func (s Switch) Enabled() bool { return s != "" }

// Bare reports whether the switch was passed without a value.
func (s Switch) Bare() bool { return s == SwitchOn }

// Value returns the value passed to the switch,
// or def if it was passed bare.
// It returns an empty string if the switch is off.
func (s Switch) Value(def string) string {
	if s.Bare() {
		return def
	}
	return string(s)
}
