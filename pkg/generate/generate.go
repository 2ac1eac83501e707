// Package generate builds synthetic frame traces for exercising the clock
// without a real render loop.
package generate

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/SmitUplenchwar2687/Cadence/pkg/recorder"
	"github.com/SmitUplenchwar2687/Cadence/pkg/timestep"
)

const (
	// PatternSteady generates frames of exactly Options.Frame.
	PatternSteady = "steady"
	// PatternJitter varies each frame uniformly by up to Options.Jitter.
	PatternJitter = "jitter"
	// PatternSpike generates steady frames with a periodic long stall.
	PatternSpike = "spike"
)

// Patterns lists the supported patterns.
var Patterns = []string{PatternSteady, PatternJitter, PatternSpike}

// Options controls how synthetic frames are generated.
type Options struct {
	Count      int
	Frame      time.Duration // nominal frame duration
	Jitter     time.Duration // jitter pattern: max deviation either way
	Spike      time.Duration // spike pattern: stall duration
	SpikeEvery int           // spike pattern: every n-th frame stalls
	Pattern    string
	Seed       int64

	// Clock configuration stamped into generated traces.
	FixedStep  time.Duration
	RenderStep time.Duration
	MaxFrame   time.Duration
}

// DefaultOptions returns defaults aligned with Cadence CLI behavior.
func DefaultOptions() *Options {
	core := timestep.DefaultConfig()
	return &Options{
		Count:      600,
		Frame:      time.Second / 60,
		Jitter:     4 * time.Millisecond,
		Spike:      250 * time.Millisecond,
		SpikeEvery: 120,
		Pattern:    PatternSteady,
		FixedStep:  core.FixedStep,
		RenderStep: core.RenderStep,
		MaxFrame:   core.MaxFrame,
	}
}

// GenerateFrames creates synthetic frames based on the provided options.
func GenerateFrames(opts *Options) ([]recorder.Frame, error) {
	if opts == nil {
		return nil, errors.New("options are required")
	}
	if opts.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", opts.Count)
	}
	if opts.Frame <= 0 {
		return nil, fmt.Errorf("frame must be positive, got %s", opts.Frame)
	}

	o := *opts
	if o.Pattern == "" {
		o.Pattern = PatternSteady
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(o.Seed))

	var elapsed func(i int) time.Duration
	switch o.Pattern {
	case PatternJitter:
		if o.Jitter < 0 {
			return nil, fmt.Errorf("jitter must not be negative, got %s", o.Jitter)
		}
		elapsed = func(int) time.Duration {
			if o.Jitter == 0 {
				return o.Frame
			}
			dev := time.Duration(rng.Int63n(int64(2*o.Jitter)+1)) - o.Jitter
			return max(o.Frame+dev, 0)
		}
	case PatternSpike:
		if o.SpikeEvery <= 0 {
			return nil, fmt.Errorf("spike interval must be positive, got %d", o.SpikeEvery)
		}
		elapsed = func(i int) time.Duration {
			if (i+1)%o.SpikeEvery == 0 {
				return o.Spike
			}
			return o.Frame
		}
	default: // steady and unknown patterns default to steady behavior.
		elapsed = func(int) time.Duration { return o.Frame }
	}

	return lo.Times(o.Count, func(i int) recorder.Frame {
		return recorder.Frame{Seq: uint64(i) + 1, Elapsed: elapsed(i)}
	}), nil
}

// GenerateTrace wraps generated frames in a trace with no recorded events.
func GenerateTrace(opts *Options) (recorder.Trace, error) {
	frames, err := GenerateFrames(opts)
	if err != nil {
		return recorder.Trace{}, err
	}
	core := timestep.DefaultConfig()
	return recorder.Trace{
		ID:         uuid.NewString(),
		Created:    time.Now().UTC(),
		FixedStep:  lo.Ternary(opts.FixedStep > 0, opts.FixedStep, core.FixedStep),
		RenderStep: lo.Ternary(opts.RenderStep > 0, opts.RenderStep, core.RenderStep),
		MaxFrame:   lo.Ternary(opts.MaxFrame >= 0, opts.MaxFrame, core.MaxFrame),
		Frames:     frames,
		Events:     []recorder.EventRecord{},
	}, nil
}
