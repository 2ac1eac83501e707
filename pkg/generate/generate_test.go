package generate

import (
	"testing"
	"time"

	"github.com/samber/lo"

	"github.com/SmitUplenchwar2687/Cadence/pkg/recorder"
)

func TestGenerateFrames_AllPatterns(t *testing.T) {
	for _, p := range Patterns {
		t.Run(p, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Count = 240
			opts.Pattern = p
			opts.Seed = 7

			frames, err := GenerateFrames(opts)
			if err != nil {
				t.Fatalf("GenerateFrames() error = %v", err)
			}
			if len(frames) != 240 {
				t.Fatalf("len(frames) = %d, want 240", len(frames))
			}
			for i, f := range frames {
				if f.Seq != uint64(i+1) {
					t.Fatalf("frames[%d].Seq = %d, want %d", i, f.Seq, i+1)
				}
				if f.Elapsed < 0 {
					t.Fatalf("frames[%d] is negative: %v", i, f.Elapsed)
				}
			}
		})
	}
}

func TestGenerateFrames_UnknownPatternFallsBackToSteady(t *testing.T) {
	frames, err := GenerateFrames(&Options{
		Count:   10,
		Frame:   20 * time.Millisecond,
		Pattern: "not-a-pattern",
		Seed:    1,
	})
	if err != nil {
		t.Fatalf("GenerateFrames() error = %v", err)
	}

	// Steady pattern uses a fixed interval.
	for _, f := range frames {
		if f.Elapsed != 20*time.Millisecond {
			t.Fatalf("unexpected elapsed at seq %d: got %v", f.Seq, f.Elapsed)
		}
	}
}

func TestGenerateFrames_JitterStaysInBounds(t *testing.T) {
	frames, err := GenerateFrames(&Options{
		Count:   1000,
		Frame:   16 * time.Millisecond,
		Jitter:  4 * time.Millisecond,
		Pattern: PatternJitter,
		Seed:    42,
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range frames {
		if f.Elapsed < 12*time.Millisecond || f.Elapsed > 20*time.Millisecond {
			t.Fatalf("frame %d out of bounds: %v", f.Seq, f.Elapsed)
		}
	}
	distinct := lo.Uniq(lo.Map(frames, func(f recorder.Frame, _ int) time.Duration { return f.Elapsed }))
	if len(distinct) < 2 {
		t.Errorf("jitter produced %d distinct durations, want variation", len(distinct))
	}
}

func TestGenerateFrames_SeedIsDeterministic(t *testing.T) {
	opts := &Options{Count: 50, Frame: 10 * time.Millisecond, Jitter: 5 * time.Millisecond, Pattern: PatternJitter, Seed: 9}
	a, _ := GenerateFrames(opts)
	b, _ := GenerateFrames(opts)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("frames[%d] differ with the same seed: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerateFrames_Spike(t *testing.T) {
	frames, err := GenerateFrames(&Options{
		Count:      10,
		Frame:      10 * time.Millisecond,
		Spike:      300 * time.Millisecond,
		SpikeEvery: 4,
		Pattern:    PatternSpike,
	})
	if err != nil {
		t.Fatal(err)
	}

	spikes := lo.FilterMap(frames, func(f recorder.Frame, _ int) (uint64, bool) {
		return f.Seq, f.Elapsed == 300*time.Millisecond
	})
	if len(spikes) != 2 || spikes[0] != 4 || spikes[1] != 8 {
		t.Errorf("spikes at %v, want [4 8]", spikes)
	}
}

func TestGenerateFrames_InvalidOptions(t *testing.T) {
	if _, err := GenerateFrames(&Options{Count: 0, Frame: time.Millisecond}); err == nil {
		t.Fatal("expected error for count=0")
	}
	if _, err := GenerateFrames(&Options{Count: 1, Frame: 0}); err == nil {
		t.Fatal("expected error for frame=0")
	}
	if _, err := GenerateFrames(&Options{Count: 1, Frame: time.Millisecond, Pattern: PatternSpike}); err == nil {
		t.Fatal("expected error for spike without interval")
	}
	if _, err := GenerateFrames(&Options{Count: 1, Frame: time.Millisecond, Jitter: -1, Pattern: PatternJitter}); err == nil {
		t.Fatal("expected error for negative jitter")
	}
}

func TestGenerateFrames_NilOptions(t *testing.T) {
	_, err := GenerateFrames(nil)
	if err == nil {
		t.Fatal("expected error for nil options")
	}
}

func TestGenerateTrace(t *testing.T) {
	opts := DefaultOptions()
	opts.Count = 60
	opts.Seed = 3

	tr, err := GenerateTrace(opts)
	if err != nil {
		t.Fatal(err)
	}
	if tr.ID == "" {
		t.Error("trace should have an ID")
	}
	if len(tr.Frames) != 60 || len(tr.Events) != 0 {
		t.Errorf("trace has %d frames and %d events, want 60 and 0", len(tr.Frames), len(tr.Events))
	}
	if tr.FixedStep != opts.FixedStep {
		t.Errorf("FixedStep = %v, want %v", tr.FixedStep, opts.FixedStep)
	}
	if tr.SimTime() != 60*(time.Second/60) {
		t.Errorf("SimTime() = %v, want %v", tr.SimTime(), 60*(time.Second/60))
	}
}
