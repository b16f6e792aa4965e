// Package async provides small scheduling primitives shared by the server.
package async

import (
	"sync"
	"time"
)

// Task is a unit of deferred work.
type Task func()

// Delayer debounces work: rapid Trigger calls collapse into a single
// execution of the most recently registered task after the delay elapses.
// A task that has been superseded before its timer fired never runs.
// Zero delay still defers to a separate goroutine and still coalesces
// triggers that arrive before the fire.
type Delayer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending Task
	gen     uint64
}

// NewDelayer creates a delayer with the given debounce delay
func NewDelayer(delay time.Duration) *Delayer {
	return &Delayer{delay: delay}
}

// Trigger schedules or resets the debounced task
func (d *Delayer) Trigger(task Task) {
	d.TriggerAfter(task, d.delay)
}

// TriggerAfter schedules the task with an explicit delay, replacing any
// pending task and re-arming the timer.
func (d *Delayer) TriggerAfter(task Task, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = task
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, func() {
		d.fire(gen)
	})
}

// fire runs the pending task if no newer trigger replaced it. The generation
// check covers the race where Stop returns false because the timer callback
// already started but has not taken the lock yet.
func (d *Delayer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	task := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	task()
}

// Cancel drops any pending task without running it
func (d *Delayer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
}

// IsTriggered reports whether a task is waiting to run
func (d *Delayer) IsTriggered() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
