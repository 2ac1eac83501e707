package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Cadence/internal/config"
	"github.com/SmitUplenchwar2687/Cadence/internal/logging"
)

// globals holds state resolved by the root command before any subcommand runs.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
	log *slog.Logger
}

// NewRootCmd creates the root cadence command.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "cadence",
		Short: "Fixed-timestep game-loop clock",
		Long: `Cadence drives fixed-step simulation updates and variable-rate renders
from a single clock. Run it in real time, simulate frame sequences on a
virtual clock, record sessions and replay them deterministically.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (json, yaml or toml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(
		newRunCmd(g),
		newSimulateCmd(g),
		newReplayCmd(g),
		newDashboardCmd(g),
		newGenerateCmd(),
	)

	return root
}

// load resolves config from defaults, file and environment, then flags.
func (g *globals) load(cmd *cobra.Command) error {
	var (
		cfg config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		return err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	g.cfg = cfg
	g.log = logger
	return nil
}
