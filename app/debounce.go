package app

import (
	"sync"
	"time"
)

// SuggestDelay is the pause before search suggestions are requested.
const SuggestDelay = 300 * time.Millisecond

// Debouncer delays an action until input settles. Scheduling again cancels
// the previous, not-yet-fired schedule.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending chan bool
}

// NewDebouncer creates a Debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arms the timer. The returned channel receives true when the
// delay elapses, or false if the schedule is cancelled first. It receives
// exactly one value.
func (d *Debouncer) Schedule() <-chan bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	ch := make(chan bool, 1)
	d.pending = ch
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.pending != ch {
			return
		}
		d.pending = nil
		d.timer = nil
		ch <- true
	})
	return ch
}

// Stop cancels any pending schedule. Call it when the owning view goes away.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Pending reports whether a schedule is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending != nil {
		d.pending <- false
		d.pending = nil
	}
}
