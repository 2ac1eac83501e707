package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

// ErrNoFixedStep is returned when a loaded trace cannot configure a clock.
var ErrNoFixedStep = errors.New("trace has no fixed step")

// Recorder captures a clock session for later replay.
// Thread-safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	trace  Trace
	writer io.Writer // optional: stream event records as they arrive
	err    error     // first streaming error
	subs   []timestep.Subscription
}

// New creates a new Recorder. If w is non-nil, event records are also
// written to w as newline-delimited JSON as they arrive.
func New(w io.Writer) *Recorder {
	return &Recorder{
		writer: w,
		trace: Trace{
			ID:      uuid.NewString(),
			Created: time.Now().UTC(),
			Frames:  []Frame{},
			Events:  []EventRecord{},
		},
	}
}

// ID returns the trace identifier.
func (r *Recorder) ID() string {
	return r.trace.ID
}

// Attach records the configuration of c and starts capturing every frame
// it ticks and every event it emits. A previous attachment is dropped.
func (r *Recorder) Attach(c *timestep.Clock) {
	r.Detach()

	cfg := c.Config()
	r.mu.Lock()
	r.trace.FixedStep = cfg.FixedStep
	r.trace.RenderStep = cfg.RenderStep
	r.trace.MaxFrame = cfg.MaxFrame
	r.subs = []timestep.Subscription{
		c.OnTick(func(elapsed time.Duration) { r.RecordFrame(elapsed) }),
		c.SubscribeAll(func(_ *timestep.Clock, ev timestep.Event) {
			if err := r.RecordEvent(ev); err != nil {
				r.mu.Lock()
				if r.err == nil {
					r.err = err
				}
				r.mu.Unlock()
			}
		}),
	}
	r.mu.Unlock()
}

// Detach stops capturing. Recorded data is kept.
func (r *Recorder) Detach() {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

// RecordFrame captures one elapsed duration.
func (r *Recorder) RecordFrame(elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trace.Frames = append(r.trace.Frames, Frame{
		Seq:     uint64(len(r.trace.Frames)) + 1,
		Elapsed: elapsed,
	})
}

// RecordEvent captures a single event.
func (r *Recorder) RecordEvent(ev timestep.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := EventRecord{
		Seq:   uint64(len(r.trace.Events)) + 1,
		Frame: uint64(len(r.trace.Frames)),
		Event: timestep.ToPayload(ev),
	}
	r.trace.Events = append(r.trace.Events, rec)

	if r.writer != nil {
		if err := json.NewEncoder(r.writer).Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// Err returns the first error hit while streaming attached events.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Trace returns a copy of the recorded session.
func (r *Recorder) Trace() Trace {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.trace
	out.Frames = make([]Frame, len(r.trace.Frames))
	copy(out.Frames, r.trace.Frames)
	out.Events = make([]EventRecord, len(r.trace.Events))
	copy(out.Events, r.trace.Events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trace.Events)
}

// ExportJSON writes the trace to the given writer as a JSON object.
func (r *Recorder) ExportJSON(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.trace)
}

// ExportFile writes the trace to a file.
func (r *Recorder) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.ExportJSON(f)
}

// LoadJSON reads a trace.
func LoadJSON(r io.Reader) (Trace, error) {
	var t Trace
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Trace{}, err
	}
	if t.FixedStep <= 0 {
		return Trace{}, ErrNoFixedStep
	}
	return t, nil
}

// LoadFile reads a trace from path.
func LoadFile(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trace{}, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	t, err := LoadJSON(f)
	if err != nil {
		return Trace{}, fmt.Errorf("loading trace %s: %w", path, err)
	}
	return t, nil
}
