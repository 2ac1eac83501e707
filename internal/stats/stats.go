// Package stats counts clock cadences for reporting. Counters are written
// on the clock's goroutine and may be read from any goroutine.
package stats

import (
	"time"

	"go.uber.org/atomic"

	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

// fpsWindow is how much frame time is averaged into one FPS reading.
const fpsWindow = time.Second

// Collector aggregates clock events into counters.
type Collector struct {
	fixedSteps atomic.Uint64
	frames     atomic.Uint64
	renders    atomic.Uint64
	starts     atomic.Uint64
	stops      atomic.Uint64
	overruns   atomic.Uint64
	lastFrame  atomic.Duration
	simTime    atomic.Duration
	running    atomic.Bool
	fps        atomic.Float64

	// Owned by the clock goroutine.
	windowTime   time.Duration
	windowFrames int
	sub          timestep.Subscription
}

// Snapshot is a copy of the counters.
type Snapshot struct {
	Running    bool          `json:"running"`
	FixedSteps uint64        `json:"fixed_steps"`
	Frames     uint64        `json:"frames"`
	Renders    uint64        `json:"renders"`
	Starts     uint64        `json:"starts"`
	Stops      uint64        `json:"stops"`
	Overruns   uint64        `json:"overruns"`
	LastFrame  time.Duration `json:"last_frame"`
	SimTime    time.Duration `json:"sim_time"`
	FPS        float64       `json:"fps"`
}

func NewCollector() *Collector {
	return &Collector{}
}

// Attach subscribes the collector to every event of c.
func (s *Collector) Attach(c *timestep.Clock) {
	s.sub.Unsubscribe()
	s.sub = c.SubscribeAll(s.Handle)
}

// Detach stops collecting.
func (s *Collector) Detach() {
	s.sub.Unsubscribe()
	s.sub = timestep.Subscription{}
}

// Handle is a timestep.Handler.
func (s *Collector) Handle(_ *timestep.Clock, ev timestep.Event) {
	switch e := ev.(type) {
	case timestep.StartEvent:
		s.starts.Inc()
		s.running.Store(true)
	case timestep.StopEvent:
		s.stops.Inc()
		s.running.Store(false)
	case timestep.OverrunEvent:
		s.overruns.Inc()
	case timestep.FixedStepEvent:
		s.fixedSteps.Inc()
		s.simTime.Add(e.Delta)
	case timestep.FrameStepEvent:
		s.frames.Inc()
		s.lastFrame.Store(e.Delta)
		s.windowTime += e.Delta
		s.windowFrames++
		if s.windowTime >= fpsWindow {
			s.fps.Store(float64(s.windowFrames) / s.windowTime.Seconds())
			s.windowTime = 0
			s.windowFrames = 0
		}
	case timestep.RenderEvent:
		s.renders.Inc()
	}
}

func (s *Collector) Snapshot() Snapshot {
	return Snapshot{
		Running:    s.running.Load(),
		FixedSteps: s.fixedSteps.Load(),
		Frames:     s.frames.Load(),
		Renders:    s.renders.Load(),
		Starts:     s.starts.Load(),
		Stops:      s.stops.Load(),
		Overruns:   s.overruns.Load(),
		LastFrame:  s.lastFrame.Load(),
		SimTime:    s.simTime.Load(),
		FPS:        s.fps.Load(),
	}
}
