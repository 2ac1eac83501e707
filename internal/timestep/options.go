package timestep

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
	"github.com/SmitUplenchwar2687/Cadence/internal/sched"
)

const (
	DefaultFixedStep  = 50 * time.Millisecond
	DefaultRenderStep = time.Second / 60
	DefaultMaxFrame   = 2000 * time.Millisecond
)

// OverrunPolicy decides what the driver does with a frame longer than
// MaxFrame.
type OverrunPolicy string

const (
	// OverrunHalt stops the clock without ticking the long frame.
	OverrunHalt OverrunPolicy = "halt"
	// OverrunClamp ticks MaxFrame instead of the measured frame and keeps
	// running.
	OverrunClamp OverrunPolicy = "clamp"
)

// ParseOverrunPolicy validates s.
func ParseOverrunPolicy(s string) (OverrunPolicy, error) {
	switch p := OverrunPolicy(s); p {
	case OverrunHalt, OverrunClamp:
		return p, nil
	default:
		return "", fmt.Errorf("unknown overrun policy %q, must be one of: halt, clamp", s)
	}
}

// Config holds the cadence constants of a Clock.
type Config struct {
	FixedStep  time.Duration
	RenderStep time.Duration
	// MaxFrame is the runaway-frame threshold. Zero disables the guard.
	MaxFrame time.Duration
	Overrun  OverrunPolicy
}

// DefaultConfig returns 20 fixed steps per second, a 60 Hz render target
// and a two second overrun threshold.
func DefaultConfig() Config {
	return Config{
		FixedStep:  DefaultFixedStep,
		RenderStep: DefaultRenderStep,
		MaxFrame:   DefaultMaxFrame,
		Overrun:    OverrunHalt,
	}
}

// Option configures a Clock.
type Option func(*Clock)

// WithConfig replaces all cadence constants at once.
func WithConfig(cfg Config) Option {
	return func(c *Clock) { c.cfg = cfg }
}

func WithFixedStep(d time.Duration) Option {
	return func(c *Clock) { c.cfg.FixedStep = d }
}

func WithRenderStep(d time.Duration) Option {
	return func(c *Clock) { c.cfg.RenderStep = d }
}

func WithMaxFrame(d time.Duration) Option {
	return func(c *Clock) { c.cfg.MaxFrame = d }
}

func WithOverrunPolicy(p OverrunPolicy) Option {
	return func(c *Clock) { c.cfg.Overrun = p }
}

// WithWallClock sets the source sampled by the driver. Defaults to the
// real clock.
func WithWallClock(clk clock.Clock) Option {
	return func(c *Clock) { c.wall = clk }
}

// WithScheduler sets where driver iterations are deferred. Defaults to a
// private sched.Queue reachable through Clock.Scheduler.
func WithScheduler(s sched.Scheduler) Option {
	return func(c *Clock) { c.sched = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Clock) { c.log = l }
}
