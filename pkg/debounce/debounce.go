// Package debounce delays a commit until updates stop arriving for a quiet period.
package debounce

import (
	"sync"
	"time"
)

const DefaultDelay = 300 * time.Millisecond

// Debouncer holds at most one pending commit. Scheduling replaces the pending one.
type Debouncer[T any] struct {
	mu         sync.Mutex
	commit     func(T)
	timer      *time.Timer
	generation uint64
}

func New[T any](commit func(T)) *Debouncer[T] {
	return &Debouncer[T]{commit: commit}
}

// Schedule cancels any pending commit and arranges for value to be committed after delay.
func (d *Debouncer[T]) Schedule(value T, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	generation := d.generation
	d.timer = time.AfterFunc(delay, func() {
		d.fire(generation, value)
	})
}

// Cancel drops the pending commit, if any. A cancelled commit never fires.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
}

// Pending reports whether a commit is scheduled and not yet fired.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timer != nil
}

// Flush commits the pending value immediately instead of waiting for the timer.
func (d *Debouncer[T]) Flush(value T) {
	d.Cancel()
	d.commit(value)
}

func (d *Debouncer[T]) fire(generation uint64, value T) {
	d.mu.Lock()
	// a timer that already started running can't be stopped, so stale ones are filtered here
	if generation != d.generation {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.generation++
	d.mu.Unlock()

	d.commit(value)
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}
