// Package worker relays database calls off the interactive loop.
//
// The contract mirrors what the interactive layer needs: one operation in
// flight at a time, the response delivered back as a plain value, no
// cancellation once an operation has started, and no timeout. The interactive
// layer renders whatever comes back; it never shares state with the worker.
package worker

import (
	"context"
	"errors"
)

// Result is the plain-value outcome of one submitted operation.
type Result struct {
	Op    string
	Value any
	Err   error
}

// Op is the unit of work the queue executes.
type Op func(ctx context.Context) (any, error)

type task struct {
	op   string
	fn   Op
	done chan Result
}

// ErrQueueFull reports that the pending buffer is exhausted.
var ErrQueueFull = errors.New("worker queue is full")

// ErrQueueClosed reports a submit after the queue stopped.
var ErrQueueClosed = errors.New("worker queue is closed")

// Queue serializes operations on a single goroutine.
type Queue struct {
	tasks chan task
}

// New creates a queue able to hold buffer pending operations.
func New(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 1
	}
	return &Queue{tasks: make(chan task, buffer)}
}

// Run processes submitted operations until ctx is cancelled. An operation
// already running is finished, not interrupted: its closure receives a
// context detached from cancellation. A cancelled queue never starts new
// work: pending tasks are drained, not executed.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			q.drain()
			return ctx.Err()
		case t := <-q.tasks:
			// Both cases may be ready at once; cancellation wins.
			if ctx.Err() != nil {
				t.done <- Result{Op: t.op, Err: ErrQueueClosed}
				q.drain()
				return ctx.Err()
			}
			value, err := t.fn(context.WithoutCancel(ctx))
			t.done <- Result{Op: t.op, Value: value, Err: err}
		}
	}
}

// Submit enqueues an operation and returns the channel its result arrives on.
// The channel is buffered; a caller that walks away leaks nothing.
func (q *Queue) Submit(op string, fn Op) (<-chan Result, error) {
	done := make(chan Result, 1)
	select {
	case q.tasks <- task{op: op, fn: fn, done: done}:
		return done, nil
	default:
		return nil, ErrQueueFull
	}
}

// Do submits an operation and waits for its result.
func (q *Queue) Do(ctx context.Context, op string, fn Op) Result {
	done, err := q.Submit(op, fn)
	if err != nil {
		return Result{Op: op, Err: err}
	}
	select {
	case <-ctx.Done():
		return Result{Op: op, Err: ctx.Err()}
	case result := <-done:
		return result
	}
}

// drain fails pending tasks that never started.
func (q *Queue) drain() {
	for {
		select {
		case t := <-q.tasks:
			t.done <- Result{Op: t.op, Err: ErrQueueClosed}
		default:
			return
		}
	}
}
