package ui

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"braces.dev/errtrace"
)

// Scheduler runs functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending call scheduled by a [Scheduler].
type Timer interface {
	// Stop prevents the call from running,
	// reporting whether it was still pending.
	Stop() bool
}

// SystemScheduler is a [Scheduler] backed by [time.AfterFunc].
var SystemScheduler Scheduler = systemScheduler{}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Button is the presentation of a button driven by a controller.
type Button struct {
	Label    string
	Class    string // extra class reflecting the state, if any
	Disabled bool
}

// FeedbackState is the state of a [Feedback] button.
type FeedbackState int

// Feedback states.
const (
	// FeedbackIdle is the resting state: enabled, original label.
	FeedbackIdle FeedbackState = iota

	// FeedbackBusy is an operation in flight.
	FeedbackBusy

	// FeedbackSucceeded is shown after the operation succeeded
	// until the delay expires.
	FeedbackSucceeded

	// FeedbackFailed is shown after the operation failed
	// until the delay expires.
	FeedbackFailed
)

// String returns the name of the state.
func (s FeedbackState) String() string {
	switch s {
	case FeedbackIdle:
		return "idle"
	case FeedbackBusy:
		return "busy"
	case FeedbackSucceeded:
		return "succeeded"
	case FeedbackFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Classes applied to feedback buttons.
const (
	SucceededClass = "copied"
	FailedClass    = "error"
)

// DefaultFeedbackDelay is how long [Feedback] shows the outcome
// of an operation before reverting.
const DefaultFeedbackDelay = 2 * time.Second

// FeedbackLabels are the labels shown by a [Feedback] button.
type FeedbackLabels struct {
	Idle      string
	Succeeded string
	Failed    string
}

// Feedback drives a button that runs an operation
// and briefly reports its outcome.
// Success and failure both revert to the idle state after Delay.
//
// Feedback is safe for concurrent use:
// reverts run on the Scheduler's goroutine.
type Feedback struct {
	Labels FeedbackLabels

	// Delay before reverting to idle. Defaults to DefaultFeedbackDelay.
	Delay time.Duration

	// Scheduler runs the revert. Defaults to SystemScheduler.
	Scheduler Scheduler

	// Log receives failures. Discarded if unset.
	Log *log.Logger

	// OnChange, if set, is called with the new presentation
	// after every change of state.
	OnChange func(Button)

	mu      sync.Mutex
	state   FeedbackState
	pending Timer
	gen     uint64 // incremented on every transition
}

// State reports the current state of the button.
func (f *Feedback) State() FeedbackState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Button reports the current presentation of the button.
func (f *Feedback) Button() Button {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.button()
}

// Begin marks the operation as started, disabling the button.
// A revert still pending from an earlier outcome is cancelled.
func (f *Feedback) Begin() {
	f.transition(FeedbackBusy, false)
}

// Succeed reports that the operation succeeded.
func (f *Feedback) Succeed() {
	f.transition(FeedbackSucceeded, true)
}

// Fail reports that the operation failed.
func (f *Feedback) Fail(err error) {
	if f.Log != nil {
		f.Log.Printf("%v", err)
	}
	f.transition(FeedbackFailed, true)
}

func (f *Feedback) transition(state FeedbackState, revert bool) {
	f.mu.Lock()
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
	f.gen++
	f.state = state
	if revert {
		gen := f.gen
		f.pending = f.scheduler().AfterFunc(f.delay(), func() {
			f.revert(gen)
		})
	}
	btn := f.button()
	f.mu.Unlock()

	f.notify(btn)
}

// revert returns to idle unless the state changed
// since the revert was scheduled.
func (f *Feedback) revert(gen uint64) {
	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		return
	}
	f.pending = nil
	f.state = FeedbackIdle
	btn := f.button()
	f.mu.Unlock()

	f.notify(btn)
}

func (f *Feedback) notify(btn Button) {
	if f.OnChange != nil {
		f.OnChange(btn)
	}
}

func (f *Feedback) button() Button {
	switch f.state {
	case FeedbackBusy:
		return Button{Label: f.Labels.Idle, Disabled: true}
	case FeedbackSucceeded:
		return Button{Label: f.Labels.Succeeded, Class: SucceededClass}
	case FeedbackFailed:
		return Button{Label: f.Labels.Failed, Class: FailedClass}
	default:
		return Button{Label: f.Labels.Idle}
	}
}

func (f *Feedback) delay() time.Duration {
	if f.Delay > 0 {
		return f.Delay
	}
	return DefaultFeedbackDelay
}

func (f *Feedback) scheduler() Scheduler {
	if f.Scheduler != nil {
		return f.Scheduler
	}
	return SystemScheduler
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Copier copies code to the clipboard
// and reports the outcome on a [Feedback] button.
type Copier struct {
	Clipboard Clipboard
	Feedback  *Feedback
}

// Copy writes text to the clipboard.
//
// The returned error is informational:
// the outcome has already been reflected on the button.
func (c *Copier) Copy(ctx context.Context, text string) error {
	c.Feedback.Begin()
	if err := c.Clipboard.WriteText(ctx, text); err != nil {
		err = errtrace.Wrap(fmt.Errorf("copy code: %w", err))
		c.Feedback.Fail(err)
		return err
	}
	c.Feedback.Succeed()
	return nil
}
