package replay

import (
	internalreplay "github.com/SmitUplenchwar2687/Cadence/internal/replay"
	"github.com/SmitUplenchwar2687/Cadence/pkg/clock"
)

// Filter selects which replayed events reach the callback.
type Filter = internalreplay.Filter

// Replayer feeds a recorded trace through a fresh clock.
type Replayer = internalreplay.Replayer

// Result is one replayed event.
type Result = internalreplay.Result

// Summary aggregates replay statistics.
type Summary = internalreplay.Summary

// ErrNoFrames is returned by Run when the trace has nothing to tick.
var ErrNoFrames = internalreplay.ErrNoFrames

// New creates a new replayer.
func New(vc *clock.VirtualClock, speed float64, filter *Filter) *Replayer {
	return internalreplay.New(vc, speed, filter)
}
