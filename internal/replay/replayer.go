package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
	"github.com/SmitUplenchwar2687/Cadence/internal/recorder"
	"github.com/SmitUplenchwar2687/Cadence/internal/sched"
	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

// ErrNoFrames is returned by Run when the trace has nothing to tick.
var ErrNoFrames = errors.New("no frames loaded")

// Replayer feeds the frames of a recorded trace through a fresh clock on
// virtual time and checks that the same events come out.
type Replayer struct {
	trace  recorder.Trace
	clock  *clock.VirtualClock
	pacer  clock.Clock
	filter Filter
	speed  float64 // 1.0 = real-time, 10.0 = 10x, 0 = instant
	log    *slog.Logger
}

// Result is one replayed event that passed the filter.
type Result struct {
	Record recorder.EventRecord `json:"record"`
	Time   time.Time            `json:"time"` // virtual time when the event fired
}

// Summary aggregates replay statistics.
type Summary struct {
	Frames       int                   `json:"frames"`
	Events       int                   `json:"events"`
	Filtered     int                   `json:"filtered"`
	PerKind      map[timestep.Kind]int `json:"per_kind"`
	Duration     time.Duration         `json:"duration"`      // virtual time span
	WallDuration time.Duration         `json:"wall_duration"` // actual wall clock time
	// Checked is false when the trace carries no tick events to compare.
	Checked       bool   `json:"checked"`
	Deterministic bool   `json:"deterministic"`
	Divergence    string `json:"divergence,omitempty"`
}

// New creates a new replayer.
func New(vc *clock.VirtualClock, speed float64, filter *Filter) *Replayer {
	if speed < 0 {
		speed = 0
	}
	r := &Replayer{
		clock: vc,
		pacer: clock.NewRealClock(),
		speed: speed,
		log:   slog.Default(),
	}
	if filter != nil {
		r.filter = *filter
	}
	return r
}

// SetPacer replaces the clock used to wait between frames when speed > 0.
func (r *Replayer) SetPacer(c clock.Clock) {
	r.pacer = c
}

// SetLogger sets the logger handed to the replay clock.
func (r *Replayer) SetLogger(l *slog.Logger) {
	r.log = l
}

// Load reads a trace from a JSON reader.
func (r *Replayer) Load(reader io.Reader) error {
	t, err := recorder.LoadJSON(reader)
	if err != nil {
		return fmt.Errorf("loading trace: %w", err)
	}
	r.trace = t
	return nil
}

// LoadTrace sets the trace directly.
func (r *Replayer) LoadTrace(t recorder.Trace) {
	t.Frames = append([]recorder.Frame(nil), t.Frames...)
	t.Events = append([]recorder.EventRecord(nil), t.Events...)
	r.trace = t
}

// Run ticks every frame of the loaded trace in order. The callback is called
// for each replayed event that passes the filter.
func (r *Replayer) Run(ctx context.Context, cb func(Result)) (*Summary, error) {
	if len(r.trace.Frames) == 0 {
		return nil, ErrNoFrames
	}

	frames := make([]recorder.Frame, len(r.trace.Frames))
	copy(frames, r.trace.Frames)
	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Seq < frames[j].Seq
	})

	c := timestep.New(
		timestep.WithConfig(r.trace.Config()),
		timestep.WithWallClock(r.clock),
		timestep.WithScheduler(sched.NewQueue()),
		timestep.WithLogger(r.log),
	)

	summary := &Summary{Frames: len(frames)}
	var (
		replayed []recorder.EventRecord
		frame    uint64
	)
	sub := c.SubscribeAll(func(_ *timestep.Clock, ev timestep.Event) {
		er := recorder.EventRecord{
			Seq:   uint64(len(replayed)) + 1,
			Frame: frame,
			Event: timestep.ToPayload(ev),
		}
		replayed = append(replayed, er)
		if !r.filter.Match(er) {
			return
		}
		summary.Filtered++
		if cb != nil {
			cb(Result{Record: er, Time: r.clock.Now()})
		}
	})
	defer sub.Unsubscribe()

	wallStart := time.Now()
	virtStart := r.clock.Now()
	finish := func() {
		summary.Events = len(replayed)
		summary.PerKind = lo.CountValuesBy(replayed, func(e recorder.EventRecord) timestep.Kind {
			return e.Event.Kind
		})
		summary.Duration = r.clock.Now().Sub(virtStart)
		summary.WallDuration = time.Since(wallStart)
	}

	lifecycle := lo.Filter(r.trace.Events, func(e recorder.EventRecord, _ int) bool {
		return e.Event.Kind == timestep.KindStart || e.Event.Kind == timestep.KindStop
	})
	// applyLifecycle restarts or stops the replay clock wherever the
	// recording did, so accumulators reset at the same points.
	applyLifecycle := func(upTo uint64) {
		for len(lifecycle) > 0 && lifecycle[0].Frame <= upTo {
			frame = lifecycle[0].Frame
			if lifecycle[0].Event.Kind == timestep.KindStart {
				if err := c.Start(); err != nil {
					r.log.Warn("replayed start rejected", "frame", frame, "error", err)
				}
			} else {
				c.Stop()
			}
			lifecycle = lifecycle[1:]
		}
	}

	for i, f := range frames {
		applyLifecycle(uint64(i))

		select {
		case <-ctx.Done():
			finish()
			return summary, ctx.Err()
		default:
		}

		elapsed := max(f.Elapsed, 0)
		if r.speed > 0 && elapsed > 0 {
			// Sleep for scaled wall-clock time for visual effect.
			scaled := time.Duration(float64(elapsed) / r.speed)
			if scaled > time.Millisecond {
				select {
				case <-ctx.Done():
					finish()
					return summary, ctx.Err()
				case <-r.pacer.After(scaled):
				}
			}
		}
		r.clock.Advance(elapsed)

		frame = uint64(i) + 1
		c.Tick(f.Elapsed)
	}

	applyLifecycle(uint64(len(frames)))
	finish()
	want := tickEvents(r.trace.Events)
	if len(want) > 0 {
		summary.Checked = true
		summary.Divergence = diverge(want, tickEvents(replayed))
		summary.Deterministic = summary.Divergence == ""
	}
	return summary, nil
}

// tickEvents keeps the events produced by Tick itself. Overrun events come
// from the driver and cannot be reproduced from frames.
func tickEvents(events []recorder.EventRecord) []recorder.EventRecord {
	return lo.Filter(events, func(e recorder.EventRecord, _ int) bool {
		switch e.Event.Kind {
		case timestep.KindFixedStep, timestep.KindFrameStep, timestep.KindRender:
			return true
		}
		return false
	})
}

func diverge(want, got []recorder.EventRecord) string {
	for i := 0; i < min(len(want), len(got)); i++ {
		w, g := want[i], got[i]
		if w.Event.Kind != g.Event.Kind || w.Event.Delta != g.Event.Delta || w.Frame != g.Frame {
			return fmt.Sprintf("event %d: recorded %s %v at frame %d, replayed %s %v at frame %d",
				i+1, w.Event.Kind, w.Event.Delta, w.Frame, g.Event.Kind, g.Event.Delta, g.Frame)
		}
	}
	if len(want) != len(got) {
		return fmt.Sprintf("recorded %d tick events, replayed %d", len(want), len(got))
	}
	return ""
}
