package ui

import (
	"sync"
	"time"
)

// Delays used by [Printer].
const (
	DefaultPrepareDelay = 500 * time.Millisecond
	DefaultRestoreDelay = time.Second
)

// PrinterLabels are the labels shown by a print button.
type PrinterLabels struct {
	Idle string
	Busy string
}

// Printer prepares a page for printing and opens the print dialog.
//
// Preparing disables the button and forces animated content visible.
// After PrepareDelay the dialog is opened,
// and RestoreDelay after that the button is restored.
type Printer struct {
	Labels PrinterLabels

	// ForceVisible makes content hidden by animations visible.
	// Optional.
	ForceVisible func()

	// Print opens the print dialog. Required.
	Print func()

	// OnChange is called with the presentation of the print button.
	// If unset, the page has no print button
	// and Prepare prints right away.
	OnChange func(Button)

	// Defaults to DefaultPrepareDelay and DefaultRestoreDelay.
	PrepareDelay time.Duration
	RestoreDelay time.Duration

	// Scheduler runs the delayed steps. Defaults to SystemScheduler.
	Scheduler Scheduler

	mu   sync.Mutex
	busy bool
}

// Busy reports whether a print is being prepared.
func (p *Printer) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Prepare starts preparing the page for printing.
// It's a no-op while an earlier print is still being prepared.
func (p *Printer) Prepare() {
	if p.OnChange == nil {
		p.Print()
		return
	}

	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return
	}
	p.busy = true
	p.mu.Unlock()

	p.OnChange(Button{Label: p.Labels.Busy, Disabled: true})
	if p.ForceVisible != nil {
		p.ForceVisible()
	}

	sched := p.scheduler()
	sched.AfterFunc(durationOr(p.PrepareDelay, DefaultPrepareDelay), func() {
		p.Print()
		sched.AfterFunc(durationOr(p.RestoreDelay, DefaultRestoreDelay), p.restore)
	})
}

func (p *Printer) restore() {
	p.mu.Lock()
	p.busy = false
	p.mu.Unlock()

	p.OnChange(Button{Label: p.Labels.Idle})
}

func (p *Printer) scheduler() Scheduler {
	if p.Scheduler != nil {
		return p.Scheduler
	}
	return SystemScheduler
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
