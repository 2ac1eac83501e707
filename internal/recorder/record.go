package recorder

import (
	"time"

	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

// Trace is a recorded clock session: the frames fed to Tick and every
// event the clock emitted. Durations are encoded as nanoseconds.
type Trace struct {
	ID         string        `json:"id"`
	Created    time.Time     `json:"created"`
	FixedStep  time.Duration `json:"fixed_step"`
	RenderStep time.Duration `json:"render_step"`
	MaxFrame   time.Duration `json:"max_frame"`
	Frames     []Frame       `json:"frames"`
	Events     []EventRecord `json:"events"`
}

// Frame is one elapsed duration passed to Tick.
type Frame struct {
	Seq     uint64        `json:"seq"` // 1-based
	Elapsed time.Duration `json:"elapsed"`
}

// EventRecord is one emitted event.
type EventRecord struct {
	Seq   uint64           `json:"seq"`   // 1-based, across all kinds
	Frame uint64           `json:"frame"` // most recent Frame.Seq, 0 before the first tick
	Event timestep.Payload `json:"event"`
}

// Config returns the clock configuration the trace was recorded with.
// The overrun policy is not recorded; the default applies.
func (t Trace) Config() timestep.Config {
	cfg := timestep.DefaultConfig()
	cfg.FixedStep = t.FixedStep
	cfg.RenderStep = t.RenderStep
	cfg.MaxFrame = t.MaxFrame
	return cfg
}

// SimTime is the sum of all recorded frame durations.
func (t Trace) SimTime() time.Duration {
	var total time.Duration
	for _, f := range t.Frames {
		total += f.Elapsed
	}
	return total
}
