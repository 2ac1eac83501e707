package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
	"github.com/SmitUplenchwar2687/Cadence/internal/config"
	"github.com/SmitUplenchwar2687/Cadence/internal/recorder"
	"github.com/SmitUplenchwar2687/Cadence/internal/replay"
	"github.com/SmitUplenchwar2687/Cadence/internal/sched"
	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

func newSimulateCmd(g *globals) *cobra.Command {
	var (
		opts       clockOptions
		frames     []string
		file       string
		kinds      []string
		output     string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Feed frame durations into the clock on virtual time",
		Long: `Ticks the clock with an explicit sequence of frame durations on a
virtual clock and prints every event it emits. No real time passes,
so the output is fully deterministic.

Frames come from --frames or from the frames of a trace file.`,
		Example: `  cadence simulate --frames 25ms,25ms,100ms
  cadence simulate --frames 16ms,16ms,17ms --fixed-step 10ms --kinds fixed-step,render
  cadence simulate --file frames.json --output session.json --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := opts.resolve(cmd, g.cfg)
			if err != nil {
				return err
			}

			var elapsed []time.Duration
			switch {
			case file != "" && len(frames) > 0:
				return fmt.Errorf("use either --frames or --file, not both")
			case file != "":
				tr, err := recorder.LoadFile(file)
				if err != nil {
					return err
				}
				elapsed = lo.Map(tr.Frames, func(f recorder.Frame, _ int) time.Duration { return f.Elapsed })
			case len(frames) > 0:
				if elapsed, err = parseFrames(frames); err != nil {
					return err
				}
			default:
				return fmt.Errorf("--frames or --file is required")
			}

			filter := &replay.Filter{}
			if filter.Kinds, err = replay.ParseKinds(kinds); err != nil {
				return err
			}

			tr := simulate(ts, elapsed, g.log)
			if output != "" {
				if err := writeTrace(output, tr); err != nil {
					return err
				}
			}

			events := lo.Filter(tr.Events, func(e recorder.EventRecord, _ int) bool {
				return filter.Match(e)
			})
			if outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"frames": len(tr.Frames),
					"events": events,
				})
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringSliceVar(&frames, "frames", nil, "comma-separated frame durations (e.g. 16ms,17ms,50ms)")
	cmd.Flags().StringVar(&file, "file", "", "read frames from a trace file")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "only print these event kinds (comma-separated)")
	cmd.Flags().StringVar(&output, "output", "", "write the resulting trace to a file")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output results as JSON")

	return cmd
}

func parseFrames(ss []string) ([]time.Duration, error) {
	out := make([]time.Duration, 0, len(ss))
	for _, s := range ss {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid frame %q: %w", s, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// simulate ticks a fresh clock on virtual time and records everything.
// The clock is started first so the trace replays with the same lifecycle.
func simulate(ts config.TimestepConfig, frames []time.Duration, log *slog.Logger) recorder.Trace {
	vc := clock.NewVirtualClock(time.Unix(0, 0).UTC())
	c := timestep.New(append(ts.Options(),
		timestep.WithWallClock(vc),
		timestep.WithScheduler(sched.NewQueue()),
		timestep.WithLogger(log),
	)...)

	rec := recorder.New(nil)
	rec.Attach(c)

	// The driver is never turned; frames come only from the loop below.
	c.Start()
	for _, f := range frames {
		vc.Advance(max(f, 0))
		c.Tick(f)
	}
	c.Stop()
	return rec.Trace()
}

func writeTrace(path string, tr recorder.Trace) error {
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

func printEvents(w io.Writer, events []recorder.EventRecord) {
	for _, e := range events {
		line := fmt.Sprintf("  #%04d frame %-4d %-10s", e.Seq, e.Frame, e.Event.Kind)
		switch e.Event.Kind {
		case timestep.KindStop:
			line += " reason=" + string(e.Event.Reason)
		case timestep.KindOverrun:
			line += fmt.Sprintf(" frame=%s limit=%s", e.Event.Delta, e.Event.Limit)
		case timestep.KindStart:
		default:
			line += fmt.Sprintf(" delta=%s seq=%d", e.Event.Delta, e.Event.Seq)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\n%d events\n", len(events))
}
