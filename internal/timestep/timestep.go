// Package timestep implements a fixed-timestep game-loop clock.
//
// Irregular wall-clock frame durations are fed to Tick, which converts them
// into two cadences: zero or more fixed-size simulation steps, followed by at
// most one variable-size frame step and render. Start and Stop drive Tick
// automatically from a wall clock through a cooperative scheduler, halting
// when a single frame exceeds the configured maximum.
//
// A Clock is not safe for concurrent use. All methods must be called from
// the goroutine that runs its scheduler.
package timestep

import (
	"errors"
	"log/slog"
	"time"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
	"github.com/SmitUplenchwar2687/Cadence/internal/sched"
)

// ErrAlreadyRunning is returned by Start on a running clock.
var ErrAlreadyRunning = errors.New("timestep: clock already running")

// Clock owns the fixed and render accumulators and notifies observers at
// each cadence boundary.
type Clock struct {
	cfg   Config
	wall  clock.Clock
	sched sched.Scheduler
	log   *slog.Logger

	running   bool
	fixedAcc  time.Duration
	renderAcc time.Duration
	lastDelta time.Duration
	lastWall  time.Time
	task      sched.Task

	ticks      uint64
	fixedSteps uint64
	frames     uint64
	overruns   uint64

	nextID    uint64
	listeners []*listener
	tickHooks []*tickHook
}

// New creates a stopped Clock. Non-positive fixed or render steps fall back
// to their defaults.
func New(opts ...Option) *Clock {
	c := &Clock{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.FixedStep <= 0 {
		c.cfg.FixedStep = DefaultFixedStep
	}
	if c.cfg.RenderStep <= 0 {
		c.cfg.RenderStep = DefaultRenderStep
	}
	if c.cfg.Overrun == "" {
		c.cfg.Overrun = OverrunHalt
	}
	if c.wall == nil {
		c.wall = clock.NewRealClock()
	}
	if c.sched == nil {
		c.sched = sched.NewQueue()
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	c.log = c.log.With("component", "timestep")
	return c
}

// Config returns the cadence constants in effect.
func (c *Clock) Config() Config { return c.cfg }

// Scheduler returns the scheduler driver iterations are deferred to.
func (c *Clock) Scheduler() sched.Scheduler { return c.sched }

// Running reports whether the driver is active.
func (c *Clock) Running() bool { return c.running }

// LastDelta returns the delta carried by the most recent fixed-step or
// frame-step emission. Handlers should prefer the delta in the event.
func (c *Clock) LastDelta() time.Duration { return c.lastDelta }

// Tick feeds elapsed wall-clock time into both accumulators and emits the
// resulting events synchronously. Negative durations are treated as zero.
func (c *Clock) Tick(elapsed time.Duration) {
	if elapsed < 0 {
		c.log.Warn("negative frame duration ignored", "elapsed", elapsed)
		elapsed = 0
	}
	c.ticks++
	for _, h := range c.tickHooks {
		h.fn(elapsed)
	}

	// Accumulators are drained before emitting so a handler that re-enters
	// Tick observes consistent state.
	c.fixedAcc += elapsed
	for c.fixedAcc >= c.cfg.FixedStep {
		c.fixedAcc -= c.cfg.FixedStep
		c.fixedSteps++
		c.lastDelta = c.cfg.FixedStep
		c.emit(FixedStepEvent{Delta: c.cfg.FixedStep, Step: c.fixedSteps})
	}

	c.renderAcc += elapsed
	if c.renderAcc >= c.cfg.RenderStep {
		delta := c.renderAcc
		c.renderAcc = 0
		c.frames++
		frame := c.frames
		c.lastDelta = delta
		c.emit(FrameStepEvent{Delta: delta, Frame: frame})
		c.emit(RenderEvent{Delta: delta, Frame: frame})
	}
}

// Start resets both accumulators, emits StartEvent and defers the first
// driver iteration to the scheduler. It returns ErrAlreadyRunning, changing
// nothing, if the clock is already running.
func (c *Clock) Start() error {
	if c.running {
		return ErrAlreadyRunning
	}
	c.running = true
	c.lastWall = c.wall.Now()
	c.fixedAcc = 0
	c.renderAcc = 0
	c.log.Debug("clock started",
		"fixed_step", c.cfg.FixedStep,
		"render_step", c.cfg.RenderStep,
		"max_frame", c.cfg.MaxFrame)

	c.emit(StartEvent{})
	// A start handler may already have stopped the clock.
	if c.running && c.task == nil {
		c.task = c.sched.Defer(c.drive)
	}
	return nil
}

// Stop halts the driver and emits StopEvent. The pending driver iteration,
// if any, is cancelled and never runs. Stopping a stopped clock only emits
// the event again.
func (c *Clock) Stop() {
	c.stop(StopRequested)
}

func (c *Clock) stop(reason StopReason) {
	c.running = false
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
	c.log.Debug("clock stopped", "reason", reason)
	c.emit(StopEvent{Reason: reason})
}

// drive is one iteration of the driver loop.
func (c *Clock) drive() {
	c.task = nil
	if !c.running {
		return
	}

	now := c.wall.Now()
	frame := now.Sub(c.lastWall)

	if c.cfg.MaxFrame > 0 && frame > c.cfg.MaxFrame {
		c.overruns++
		c.log.Warn("frame exceeded maximum duration",
			"frame", frame,
			"limit", c.cfg.MaxFrame,
			"policy", c.cfg.Overrun)
		c.emit(OverrunEvent{Frame: frame, Limit: c.cfg.MaxFrame})
		if !c.running {
			return
		}
		if c.cfg.Overrun != OverrunClamp {
			c.stop(StopOverrun)
			return
		}
		frame = c.cfg.MaxFrame
	}

	c.lastWall = now
	c.Tick(frame)

	// Handlers may have stopped, or stopped and restarted, the clock.
	if c.running && c.task == nil {
		c.task = c.sched.Defer(c.drive)
	}
}

// Snapshot is a point-in-time copy of a Clock's state.
type Snapshot struct {
	Running           bool          `json:"running"`
	FixedAccumulator  time.Duration `json:"fixed_accumulator"`
	RenderAccumulator time.Duration `json:"render_accumulator"`
	LastDelta         time.Duration `json:"last_delta"`
	Ticks             uint64        `json:"ticks"`
	FixedSteps        uint64        `json:"fixed_steps"`
	Frames            uint64        `json:"frames"`
	Overruns          uint64        `json:"overruns"`
}

func (c *Clock) Snapshot() Snapshot {
	return Snapshot{
		Running:           c.running,
		FixedAccumulator:  c.fixedAcc,
		RenderAccumulator: c.renderAcc,
		LastDelta:         c.lastDelta,
		Ticks:             c.ticks,
		FixedSteps:        c.fixedSteps,
		Frames:            c.frames,
		Overruns:          c.overruns,
	}
}
