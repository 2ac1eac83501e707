package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Cadence/internal/config"
)

// clockOptions are the per-command clock flags. Unset flags fall back to
// the loaded config.
type clockOptions struct {
	fixedStep  time.Duration
	renderStep time.Duration
	maxFrame   time.Duration
	overrun    string
	pace       time.Duration
}

func (o *clockOptions) addFlags(cmd *cobra.Command) {
	def := config.Default().Timestep
	cmd.Flags().DurationVar(&o.fixedStep, "fixed-step", def.FixedStep, "simulation update interval")
	cmd.Flags().DurationVar(&o.renderStep, "render-step", def.RenderStep, "render interval")
	cmd.Flags().DurationVar(&o.maxFrame, "max-frame", def.MaxFrame, "longest frame before the overrun guard trips (0 disables)")
	cmd.Flags().StringVar(&o.overrun, "overrun", def.Overrun, "overrun policy (halt, clamp)")
	cmd.Flags().DurationVar(&o.pace, "pace", def.Pace, "minimum interval between driver turns (0 = spin)")
}

// resolve merges changed flags over cfg and validates the result.
func (o *clockOptions) resolve(cmd *cobra.Command, cfg config.Config) (config.TimestepConfig, error) {
	ts := cfg.Timestep
	if cmd.Flags().Changed("fixed-step") {
		ts.FixedStep = o.fixedStep
	}
	if cmd.Flags().Changed("render-step") {
		ts.RenderStep = o.renderStep
	}
	if cmd.Flags().Changed("max-frame") {
		ts.MaxFrame = o.maxFrame
	}
	if cmd.Flags().Changed("overrun") {
		ts.Overrun = o.overrun
	}
	if cmd.Flags().Changed("pace") {
		ts.Pace = o.pace
	}

	cfg.Timestep = ts
	if err := cfg.Validate(); err != nil {
		return config.TimestepConfig{}, err
	}
	return ts, nil
}
