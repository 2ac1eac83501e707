package replay

import (
	"context"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Cadence/pkg/clock"
	"github.com/SmitUplenchwar2687/Cadence/pkg/generate"
	"github.com/SmitUplenchwar2687/Cadence/pkg/timestep"
)

func TestReplayGeneratedTrace(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vc := clock.NewVirtualClock(start)

	opts := generate.DefaultOptions()
	opts.Count = 30
	opts.Frame = 10 * time.Millisecond
	opts.FixedStep = 50 * time.Millisecond
	tr, err := generate.GenerateTrace(opts)
	if err != nil {
		t.Fatalf("GenerateTrace() failed: %v", err)
	}

	r := New(vc, 0, &Filter{Kinds: []timestep.Kind{timestep.KindFixedStep}})
	r.LoadTrace(tr)

	summary, err := r.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if summary.Filtered != 6 {
		t.Fatalf("Filtered = %d, want 6", summary.Filtered)
	}
	if summary.Duration != 300*time.Millisecond {
		t.Fatalf("Duration = %v, want 300ms", summary.Duration)
	}
}
