package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Cadence/internal/clock"
	"github.com/SmitUplenchwar2687/Cadence/internal/replay"
	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

// ErrNotDeterministic is returned by replay --strict when the replayed
// events differ from the recording.
var ErrNotDeterministic = errors.New("replay diverged from recording")

func newReplayCmd(g *globals) *cobra.Command {
	var (
		file       string
		speed      float64
		kinds      []string
		fromFrame  uint64
		toFrame    uint64
		minDelta   time.Duration
		strict     bool
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recorded trace through a fresh clock",
		Long: `Replays the frames of a recorded trace through a new clock on virtual
time and compares the events it emits with the recording.

Frames are replayed in order. The virtual clock advances by each frame
duration, so the clock behaves exactly as it did when recorded, at any
speed you choose.

Speed: 0 = instant, 1 = real-time, 10 = 10x, 100 = 100x`,
		Example: `  cadence replay --file session.json
  cadence replay --file session.json --speed 1 --kinds render
  cadence replay --file session.json --from-frame 100 --to-frame 200 --json
  cadence replay --file session.json --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()

			filter := &replay.Filter{
				MinDelta:  minDelta,
				FromFrame: fromFrame,
				ToFrame:   toFrame,
			}
			if filter.Kinds, err = replay.ParseKinds(kinds); err != nil {
				return err
			}

			vc := clock.NewVirtualClock(time.Unix(0, 0).UTC())
			r := replay.New(vc, speed, filter)
			r.SetLogger(g.log)
			if err := r.Load(f); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if !outputJSON {
				fmt.Fprintf(out, "Replaying %s at %.0fx speed...\n\n", file, speed)
			}

			var results []replay.Result
			summary, err := r.Run(ctx, func(res replay.Result) {
				if outputJSON {
					results = append(results, res)
					return
				}
				e := res.Record
				fmt.Fprintf(out, "  [%-10s] frame %-5d delta=%s\n", e.Event.Kind, e.Frame, e.Event.Delta)
			})
			if err != nil {
				return err
			}

			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{
					"results": results,
					"summary": summary,
				}); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "--- Replay Summary ---")
				fmt.Fprintf(out, "  Frames:         %d\n", summary.Frames)
				fmt.Fprintf(out, "  Events:         %d\n", summary.Events)
				fmt.Fprintf(out, "  Filtered:       %d\n", summary.Filtered)
				for _, k := range sortedKinds(summary.PerKind) {
					fmt.Fprintf(out, "    %-12s %d\n", k, summary.PerKind[k])
				}
				fmt.Fprintf(out, "  Virtual time:   %s\n", summary.Duration)
				fmt.Fprintf(out, "  Wall time:      %s\n", summary.WallDuration.Round(time.Millisecond))

				fmt.Fprintln(out)
				fmt.Fprintln(out, strings.Repeat("=", 50))
				switch {
				case !summary.Checked:
					fmt.Fprintln(out, "No recorded events to compare.")
				case summary.Deterministic:
					fmt.Fprintln(out, "Deterministic: replay matches the recording.")
				default:
					fmt.Fprintf(out, "Diverged: %s\n", summary.Divergence)
				}
				fmt.Fprintln(out, strings.Repeat("=", 50))
			}

			if strict && summary.Checked && !summary.Deterministic {
				return fmt.Errorf("%w: %s", ErrNotDeterministic, summary.Divergence)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to a recorded trace file (required)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "replay speed (0=instant, 1=real-time, 10=10x)")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "filter by event kinds (comma-separated)")
	cmd.Flags().Uint64Var(&fromFrame, "from-frame", 0, "only show events at or after this frame")
	cmd.Flags().Uint64Var(&toFrame, "to-frame", 0, "only show events at or before this frame")
	cmd.Flags().DurationVar(&minDelta, "min-delta", 0, "only show events carrying at least this delta")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the replay diverges from the recording")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output results as JSON")

	return cmd
}

// sortedKinds returns the kinds present in counts in declaration order.
func sortedKinds(counts map[timestep.Kind]int) []timestep.Kind {
	return lo.Filter(timestep.Kinds, func(k timestep.Kind, _ int) bool {
		return counts[k] > 0
	})
}
