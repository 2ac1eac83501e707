// Package sched exposes the cooperative run queue that drives a Cadence clock.
package sched

import (
	internalsched "github.com/SmitUplenchwar2687/Cadence/internal/sched"
)

// Scheduler defers a callback to a later turn.
type Scheduler = internalsched.Scheduler

// Task is a deferred callback that can be cancelled.
type Task = internalsched.Task

// Queue is a FIFO run queue executing on a single goroutine.
type Queue = internalsched.Queue

// Option configures a Queue.
type Option = internalsched.Option

var (
	NewQueue = internalsched.NewQueue
	WithPace = internalsched.WithPace
)
