package ui

import (
	"context"
	"sync"

	"braces.dev/errtrace"
)

// Settlement receives the outcome of an asynchronous operation,
// such as a browser promise,
// that may complete after its waiter has given up.
type Settlement struct {
	once    sync.Once
	done    chan error
	release func()
}

// NewSettlement builds a Settlement.
// release, if non-nil, runs once the outcome arrives,
// whether or not anyone is still waiting for it.
func NewSettlement(release func()) *Settlement {
	return &Settlement{
		done:    make(chan error, 1),
		release: release,
	}
}

// Settle records the outcome of the operation.
// Only the first call has any effect. It never blocks.
func (s *Settlement) Settle(err error) {
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
		s.done <- err
	})
}

// Wait blocks until the operation settles or ctx ends.
func (s *Settlement) Wait(ctx context.Context) error {
	select {
	case err := <-s.done:
		return errtrace.Wrap(err)
	case <-ctx.Done():
		return errtrace.Wrap(ctx.Err())
	}
}
