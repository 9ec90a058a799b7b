// Package scheduler keeps the simulation's timers in one registry keyed by
// purpose. Tasks run on whichever goroutine calls Poll, so the simulation
// loop stays the only writer of world state, and a world reset cancels
// every timer at once.
package scheduler

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Func is a scheduled callback. now is the Poll time that fired it.
type Func func(now time.Time)

type task struct {
	purpose  string
	interval time.Duration
	next     time.Time
	fn       Func
	repeat   bool
}

type Registry struct {
	mu    sync.Mutex
	tasks map[string]*task
	clock func() time.Time
}

// New creates a registry. A nil clock uses time.Now.
func New(clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{tasks: make(map[string]*task), clock: clock}
}

// Every runs fn each interval, replacing any task with the same purpose.
// Non-positive intervals are ignored.
func (r *Registry) Every(purpose string, interval time.Duration, fn Func) {
	if interval <= 0 {
		return
	}
	r.add(&task{purpose: purpose, interval: interval, fn: fn, repeat: true})
}

// After runs fn once after delay, replacing any task with the same purpose.
func (r *Registry) After(purpose string, delay time.Duration, fn Func) {
	r.add(&task{purpose: purpose, interval: delay, fn: fn})
}

func (r *Registry) add(t *task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.next = r.clock().Add(t.interval)
	r.tasks[t.purpose] = t
}

// Cancel removes a task and reports whether it existed.
func (r *Registry) Cancel(purpose string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[purpose]
	delete(r.tasks, purpose)
	return ok
}

// CancelAll removes every task.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = make(map[string]*task)
}

// Pending returns the registered purposes in sorted order.
func (r *Registry) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.tasks))
	for p := range r.tasks {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Poll runs every task due at now, in purpose order, and returns how many
// ran. A repeating task that fell several intervals behind runs once and
// is rescheduled from now. Callbacks may register or cancel tasks.
func (r *Registry) Poll(now time.Time) int {
	r.mu.Lock()
	var due []*task
	for _, t := range r.tasks {
		if !now.Before(t.next) {
			due = append(due, t)
		}
	}
	r.mu.Unlock()

	slices.SortFunc(due, func(a, b *task) int { return strings.Compare(a.purpose, b.purpose) })

	ran := 0
	for _, t := range due {
		if !r.claim(t, now) {
			continue
		}
		t.fn(now)
		ran++
	}
	return ran
}

// claim reschedules or removes t before it runs. It fails when t was
// cancelled or replaced by an earlier callback in the same Poll.
func (r *Registry) claim(t *task, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tasks[t.purpose] != t {
		return false
	}
	if !t.repeat {
		delete(r.tasks, t.purpose)
		return true
	}
	t.next = t.next.Add(t.interval)
	if !now.Before(t.next) {
		t.next = now.Add(t.interval)
	}
	return true
}
