// Package sched provides the cooperative scheduling primitive used to drive
// a timestep clock: callbacks deferred to the next turn of a run queue that
// executes on a single goroutine.
package sched

import (
	"context"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
)

// Task is a deferred callback that has not necessarily run yet.
type Task interface {
	// Cancel prevents the callback from running. It reports whether the
	// task was still pending.
	Cancel() bool
}

// Scheduler defers a callback to a later turn. Implementations must never
// invoke fn synchronously from Defer.
type Scheduler interface {
	Defer(fn func()) Task
}

type taskState int

const (
	taskPending taskState = iota
	taskDone
	taskCancelled
)

type task struct {
	q     *Queue
	fn    func()
	state taskState
}

func (t *task) Cancel() bool {
	t.q.mu.Lock()
	defer t.q.mu.Unlock()
	if t.state != taskPending {
		return false
	}
	t.state = taskCancelled
	return true
}

// Queue is a FIFO run queue. Tasks deferred during a turn run on the next
// turn, so a callback that reschedules itself yields to everything already
// queued. Defer and Post may be called from any goroutine; tasks only ever
// execute on the goroutine calling RunTurn or Run.
type Queue struct {
	mu      sync.Mutex
	pending []*task
	wake    chan struct{}

	clock    clock.Clock
	pace     time.Duration
	lastTurn time.Time
	turns    uint64
}

var _ Scheduler = (*Queue)(nil)

// Option configures a Queue.
type Option func(*Queue)

// WithPace makes Run wait until at least d has passed on clk since the
// previous turn began. Zero disables pacing.
func WithPace(clk clock.Clock, d time.Duration) Option {
	return func(q *Queue) {
		q.clock = clk
		q.pace = d
	}
}

// NewQueue creates an empty Queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{wake: make(chan struct{}, 1)}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Defer enqueues fn for the next turn.
func (q *Queue) Defer(fn func()) Task {
	t := &task{q: q, fn: fn}

	q.mu.Lock()
	q.pending = append(q.pending, t)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return t
}

// Post enqueues fn from another goroutine. It is Defer without the handle.
func (q *Queue) Post(fn func()) {
	q.Defer(fn)
}

// Len returns the number of queued tasks that are still pending.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, t := range q.pending {
		if t.state == taskPending {
			n++
		}
	}
	return n
}

// Turns returns how many turns have run.
func (q *Queue) Turns() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.turns
}

// RunTurn executes the tasks that were queued when the turn began and
// returns how many ran.
func (q *Queue) RunTurn() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.turns++
	q.mu.Unlock()

	ran := 0
	for _, t := range batch {
		q.mu.Lock()
		if t.state != taskPending {
			q.mu.Unlock()
			continue
		}
		t.state = taskDone
		q.mu.Unlock()

		t.fn()
		ran++
	}
	return ran
}

// Run executes turns on the calling goroutine until ctx is done, blocking
// while the queue is empty. It returns ctx.Err().
func (q *Queue) Run(ctx context.Context) error {
	for {
		if q.Len() == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-q.wake:
			}
			continue
		}

		if err := q.waitPace(ctx); err != nil {
			return err
		}
		q.RunTurn()

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (q *Queue) waitPace(ctx context.Context) error {
	if q.pace <= 0 || q.clock == nil {
		return nil
	}
	if !q.lastTurn.IsZero() {
		if wait := q.pace - q.clock.Since(q.lastTurn); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-q.clock.After(wait):
			}
		}
	}
	q.lastTurn = q.clock.Now()
	return nil
}
