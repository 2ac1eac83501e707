package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Cadence/internal/config"
	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
	"github.com/SmitUplenchwar2687/Cadence/pkg/generate"
)

func newGenerateCmd() *cobra.Command {
	var (
		framesOutput string
		configOutput string
		opts         = generate.DefaultOptions()
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample frame traces and config",
		Long: `Generates sample data for testing and experimentation.

Use "generate frames" to create a synthetic frame trace.
Use "generate config" to create an example config file.`,
	}

	framesCmd := &cobra.Command{
		Use:   "frames",
		Short: "Generate a synthetic frame trace",
		Long: `Creates a trace of frame durations that "simulate --file" and
"replay --file" can consume.

Patterns:
  steady    Every frame lasts exactly --frame
  jitter    Frames vary uniformly by up to --jitter either way
  spike     Steady frames with a --spike stall every --spike-every frames`,
		Example: `  cadence generate frames --output frames.json --count 600
  cadence generate frames --output jitter.json --pattern jitter --jitter 5ms --seed 42
  cadence generate frames --output spikes.json --pattern spike --spike 3s --spike-every 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if framesOutput == "" {
				framesOutput = "frames.json"
			}
			if !lo.Contains(generate.Patterns, opts.Pattern) {
				return fmt.Errorf("unknown pattern %q, must be one of: %v", opts.Pattern, generate.Patterns)
			}

			tr, err := generate.GenerateTrace(opts)
			if err != nil {
				return err
			}
			if err := writeTrace(framesOutput, tr); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d frames to %s\n", len(tr.Frames), framesOutput)
			fmt.Fprintf(out, "  Pattern:  %s\n", opts.Pattern)
			fmt.Fprintf(out, "  Sim time: %s\n", tr.SimTime())
			return nil
		},
	}

	framesCmd.Flags().StringVar(&framesOutput, "output", "frames.json", "output file path")
	framesCmd.Flags().IntVar(&opts.Count, "count", opts.Count, "number of frames to generate")
	framesCmd.Flags().DurationVar(&opts.Frame, "frame", opts.Frame, "nominal frame duration")
	framesCmd.Flags().DurationVar(&opts.Jitter, "jitter", opts.Jitter, "max deviation for the jitter pattern")
	framesCmd.Flags().DurationVar(&opts.Spike, "spike", opts.Spike, "stall duration for the spike pattern")
	framesCmd.Flags().IntVar(&opts.SpikeEvery, "spike-every", opts.SpikeEvery, "stall every n-th frame for the spike pattern")
	framesCmd.Flags().StringVar(&opts.Pattern, "pattern", generate.PatternSteady, "frame pattern (steady, jitter, spike)")
	framesCmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = time based)")
	framesCmd.Flags().DurationVar(&opts.FixedStep, "fixed-step", timestep.DefaultFixedStep, "fixed step stamped into the trace")
	framesCmd.Flags().DurationVar(&opts.RenderStep, "render-step", timestep.DefaultRenderStep, "render step stamped into the trace")
	framesCmd.Flags().DurationVar(&opts.MaxFrame, "max-frame", timestep.DefaultMaxFrame, "max frame stamped into the trace")

	configCmd := &cobra.Command{
		Use:     "config",
		Short:   "Generate an example config JSON file",
		Example: `  cadence generate config --output cadence.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configOutput == "" {
				configOutput = "cadence.json"
			}
			if err := config.WriteExample(configOutput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config at %s\n", configOutput)
			return nil
		},
	}

	configCmd.Flags().StringVar(&configOutput, "output", "cadence.json", "output file path")

	cmd.AddCommand(framesCmd, configCmd)
	return cmd
}

