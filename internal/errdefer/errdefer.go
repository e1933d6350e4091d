// Package errdefer runs cleanup that must be deferred
// until the end of a function,
// but whose errors should be returned from the function.
package errdefer

import (
	"errors"
	"io"
)

// Close calls Close on the given Closer,
// and joins any error returned with the given error.
//
// Use it inside a defer statement with a named return.
func Close(err *error, closer io.Closer) {
	Run(err, closer.Close)
}

// Run calls fn and joins any error it returns with the given error.
// The given error is left untouched if fn succeeds.
//
// Use it inside a defer statement with a named return.
func Run(err *error, fn func() error) {
	if ferr := fn(); ferr != nil {
		*err = errors.Join(*err, ferr)
	}
}
