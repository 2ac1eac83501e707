// Package timestep is the public face of the Cadence game-loop clock.
package timestep

import (
	"time"

	internaltimestep "github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

// Clock drives fixed-step simulation updates and variable-rate renders.
type Clock = internaltimestep.Clock

// Config holds the clock cadences and overrun policy.
type Config = internaltimestep.Config

// Option configures a Clock.
type Option = internaltimestep.Option

// Event is one of the typed events a Clock emits.
type Event = internaltimestep.Event

// Kind names an event.
type Kind = internaltimestep.Kind

// Handler receives subscribed events.
type Handler = internaltimestep.Handler

// Subscription removes a handler.
type Subscription = internaltimestep.Subscription

// Snapshot is a point-in-time view of clock state.
type Snapshot = internaltimestep.Snapshot

// Payload is the flat JSON form of an event.
type Payload = internaltimestep.Payload

// OverrunPolicy decides what happens after a frame exceeds MaxFrame.
type OverrunPolicy = internaltimestep.OverrunPolicy

// StopReason tells an intentional stop apart from the overrun halt.
type StopReason = internaltimestep.StopReason

type (
	StartEvent     = internaltimestep.StartEvent
	StopEvent      = internaltimestep.StopEvent
	FixedStepEvent = internaltimestep.FixedStepEvent
	FrameStepEvent = internaltimestep.FrameStepEvent
	RenderEvent    = internaltimestep.RenderEvent
	OverrunEvent   = internaltimestep.OverrunEvent
)

const (
	KindStart     = internaltimestep.KindStart
	KindStop      = internaltimestep.KindStop
	KindFixedStep = internaltimestep.KindFixedStep
	KindFrameStep = internaltimestep.KindFrameStep
	KindRender    = internaltimestep.KindRender
	KindOverrun   = internaltimestep.KindOverrun

	StopRequested = internaltimestep.StopRequested
	StopOverrun   = internaltimestep.StopOverrun

	OverrunHalt  = internaltimestep.OverrunHalt
	OverrunClamp = internaltimestep.OverrunClamp

	DefaultFixedStep  = internaltimestep.DefaultFixedStep
	DefaultRenderStep = internaltimestep.DefaultRenderStep
	DefaultMaxFrame   = internaltimestep.DefaultMaxFrame
)

// ErrAlreadyRunning is returned by Start on a running clock.
var ErrAlreadyRunning = internaltimestep.ErrAlreadyRunning

// Re-exported options.
var (
	WithConfig        = internaltimestep.WithConfig
	WithFixedStep     = internaltimestep.WithFixedStep
	WithRenderStep    = internaltimestep.WithRenderStep
	WithMaxFrame      = internaltimestep.WithMaxFrame
	WithOverrunPolicy = internaltimestep.WithOverrunPolicy
	WithWallClock     = internaltimestep.WithWallClock
	WithScheduler     = internaltimestep.WithScheduler
	WithLogger        = internaltimestep.WithLogger
)

// New creates a stopped clock.
func New(opts ...Option) *Clock {
	return internaltimestep.New(opts...)
}

// DefaultConfig returns the default cadences.
func DefaultConfig() Config {
	return internaltimestep.DefaultConfig()
}

// Delta returns the duration carried by ev.
func Delta(ev Event) time.Duration {
	return internaltimestep.Delta(ev)
}

// ToPayload flattens ev.
func ToPayload(ev Event) Payload {
	return internaltimestep.ToPayload(ev)
}
