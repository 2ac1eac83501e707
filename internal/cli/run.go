package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
	"github.com/SmitUplenchwar2687/Cadence/internal/config"
	"github.com/SmitUplenchwar2687/Cadence/internal/recorder"
	"github.com/SmitUplenchwar2687/Cadence/internal/sched"
	"github.com/SmitUplenchwar2687/Cadence/internal/stats"
	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

func newRunCmd(g *globals) *cobra.Command {
	var (
		opts       clockOptions
		duration   time.Duration
		recordFile string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the clock in real time",
		Long: `Starts the clock on the wall clock and drives it from a cooperative
scheduler until the duration elapses, the overrun guard halts it,
or the process is interrupted. Prints how many fixed steps, frames
and renders were produced.`,
		Example: `  cadence run --duration 5s
  cadence run --fixed-step 10ms --render-step 8ms --duration 2s --json
  cadence run --duration 10s --record session.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := opts.resolve(cmd, g.cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var rec *recorder.Recorder
			if recordFile != "" {
				rec = recorder.New(nil)
			}

			result, err := runRealtime(ctx, ts, duration, rec, g.log)
			if err != nil {
				return err
			}

			if rec != nil {
				g.log.Info("exporting trace", "events", rec.Len(), "file", recordFile)
				if err := rec.ExportFile(recordFile); err != nil {
					return fmt.Errorf("exporting trace: %w", err)
				}
				result.TraceID = rec.ID()
				result.TraceFile = recordFile
			}

			if outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printRunResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "how long to run (0 = until interrupted)")
	cmd.Flags().StringVar(&recordFile, "record", "", "record the session to a trace file")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output results as JSON")

	return cmd
}

// RunResult summarizes a real-time run.
type RunResult struct {
	Wall      time.Duration     `json:"wall"`
	Halted    bool              `json:"halted"` // stopped by the overrun guard
	Stats     stats.Snapshot    `json:"stats"`
	Clock     timestep.Snapshot `json:"clock"`
	TraceID   string            `json:"trace_id,omitempty"`
	TraceFile string            `json:"trace_file,omitempty"`
}

// newDriver builds a clock driven by its own queue.
func newDriver(ts config.TimestepConfig, wall clock.Clock, log *slog.Logger) (*timestep.Clock, *sched.Queue) {
	var q *sched.Queue
	if ts.Pace > 0 {
		q = sched.NewQueue(sched.WithPace(wall, ts.Pace))
	} else {
		q = sched.NewQueue()
	}
	opts := append(ts.Options(),
		timestep.WithWallClock(wall),
		timestep.WithScheduler(q),
		timestep.WithLogger(log),
	)
	return timestep.New(opts...), q
}

// runRealtime drives a clock on the wall clock until ctx is done, d elapses
// or the clock stops itself.
func runRealtime(ctx context.Context, ts config.TimestepConfig, d time.Duration, rec *recorder.Recorder, log *slog.Logger) (*RunResult, error) {
	wall := clock.NewRealClock()
	c, q := newDriver(ts, wall, log)

	st := stats.NewCollector()
	st.Attach(c)
	if rec != nil {
		rec.Attach(c)
	}

	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	halted := false
	c.Subscribe(timestep.KindStop, func(_ *timestep.Clock, ev timestep.Event) {
		if ev.(timestep.StopEvent).Reason == timestep.StopOverrun {
			halted = true
		}
		cancel()
	})

	start := wall.Now()
	if err := c.Start(); err != nil {
		return nil, err
	}
	log.Info("clock started", "fixed_step", ts.FixedStep, "render_step", ts.RenderStep, "pace", ts.Pace)

	if err := q.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	// The queue is no longer running, so this goroutine owns the clock.
	if c.Running() {
		c.Stop()
	}

	return &RunResult{
		Wall:   wall.Since(start),
		Halted: halted,
		Stats:  st.Snapshot(),
		Clock:  c.Snapshot(),
	}, nil
}

func printRunResult(w io.Writer, r *RunResult) {
	fmt.Fprintln(w, "=== Cadence Run ===")
	fmt.Fprintf(w, "  Wall time:     %s\n", r.Wall.Round(time.Millisecond))
	fmt.Fprintf(w, "  Sim time:      %s\n", r.Stats.SimTime)
	fmt.Fprintf(w, "  Fixed steps:   %d\n", r.Stats.FixedSteps)
	fmt.Fprintf(w, "  Frames:        %d\n", r.Stats.Frames)
	fmt.Fprintf(w, "  Renders:       %d\n", r.Stats.Renders)
	fmt.Fprintf(w, "  FPS:           %.1f\n", r.Stats.FPS)
	fmt.Fprintf(w, "  Overruns:      %d\n", r.Stats.Overruns)
	if r.Halted {
		fmt.Fprintln(w, "  Halted by the overrun guard.")
	}
	if r.TraceFile != "" {
		fmt.Fprintf(w, "  Trace:         %s (%s)\n", r.TraceFile, r.TraceID)
	}
}
