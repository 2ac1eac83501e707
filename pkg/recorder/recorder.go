package recorder

import (
	"io"

	internalrecorder "github.com/SmitUplenchwar2687/Cadence/internal/recorder"
)

// Trace is a recorded clock session.
type Trace = internalrecorder.Trace

// Frame is one elapsed duration passed to Tick.
type Frame = internalrecorder.Frame

// EventRecord is one emitted event within a trace.
type EventRecord = internalrecorder.EventRecord

// Recorder captures a clock session for later replay.
type Recorder = internalrecorder.Recorder

// ErrNoFixedStep is returned when a loaded trace cannot configure a clock.
var ErrNoFixedStep = internalrecorder.ErrNoFixedStep

// New creates a new Recorder.
func New(w io.Writer) *Recorder {
	return internalrecorder.New(w)
}

// LoadJSON reads a trace.
func LoadJSON(r io.Reader) (Trace, error) {
	return internalrecorder.LoadJSON(r)
}

// LoadFile reads a trace from path.
func LoadFile(path string) (Trace, error) {
	return internalrecorder.LoadFile(path)
}
