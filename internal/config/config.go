package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/SmitUplenchwar2687/Cadence/internal/logging"
	"github.com/SmitUplenchwar2687/Cadence/internal/timestep"
)

// EnvPrefix prefixes environment overrides, e.g. CADENCE_TIMESTEP_FIXED_STEP.
const EnvPrefix = "CADENCE"

// Config is the top-level configuration for a Cadence session.
type Config struct {
	Timestep TimestepConfig  `json:"timestep" mapstructure:"timestep"`
	Server   ServerConfig    `json:"server" mapstructure:"server"`
	Log      logging.Options `json:"log" mapstructure:"log"`
}

// TimestepConfig holds the clock cadences and driver settings.
type TimestepConfig struct {
	FixedStep  time.Duration `json:"fixed_step" mapstructure:"fixed_step" validate:"gt=0"`
	RenderStep time.Duration `json:"render_step" mapstructure:"render_step" validate:"gt=0"`
	MaxFrame   time.Duration `json:"max_frame" mapstructure:"max_frame" validate:"gte=0"`
	Overrun    string        `json:"overrun" mapstructure:"overrun" validate:"oneof=halt clamp"`
	// Pace is the minimum interval between scheduler turns. Zero lets the
	// driver spin as fast as the host allows.
	Pace time.Duration `json:"pace" mapstructure:"pace" validate:"gte=0"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr" validate:"required"`
	// StreamFixed also forwards fixed-step events to websocket clients.
	StreamFixed bool `json:"stream_fixed" mapstructure:"stream_fixed"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	core := timestep.DefaultConfig()
	return Config{
		Timestep: TimestepConfig{
			FixedStep:  core.FixedStep,
			RenderStep: core.RenderStep,
			MaxFrame:   core.MaxFrame,
			Overrun:    string(core.Overrun),
			Pace:       time.Millisecond,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: logging.Options{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the config is valid.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	ts := c.Timestep
	if ts.MaxFrame > 0 && ts.MaxFrame < ts.FixedStep {
		return fmt.Errorf("max_frame (%s) must be zero or at least fixed_step (%s)", ts.MaxFrame, ts.FixedStep)
	}
	return nil
}

// Core converts the timestep section into the clock's configuration.
func (t TimestepConfig) Core() timestep.Config {
	return timestep.Config{
		FixedStep:  t.FixedStep,
		RenderStep: t.RenderStep,
		MaxFrame:   t.MaxFrame,
		Overrun:    timestep.OverrunPolicy(t.Overrun),
	}
}

// Options returns the clock options for this section. Wall clock, scheduler
// and logger are left to the caller.
func (t TimestepConfig) Options() []timestep.Option {
	return []timestep.Option{timestep.WithConfig(t.Core())}
}

// LoadFile reads a JSON, YAML or TOML config file (by extension) and merges
// it with defaults and CADENCE_* environment overrides. Fields not specified
// keep their default values.
func LoadFile(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return Default(), fmt.Errorf("reading config file: %w", err)
		}
		return Default(), fmt.Errorf("parsing config file: %w", err)
	}
	return decode(v)
}

// LoadEnv returns defaults merged with CADENCE_* environment overrides.
func LoadEnv() (Config, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	def := Default()
	v.SetDefault("timestep.fixed_step", def.Timestep.FixedStep)
	v.SetDefault("timestep.render_step", def.Timestep.RenderStep)
	v.SetDefault("timestep.max_frame", def.Timestep.MaxFrame)
	v.SetDefault("timestep.overrun", def.Timestep.Overrun)
	v.SetDefault("timestep.pace", def.Timestep.Pace)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.stream_fixed", def.Server.StreamFixed)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	example := `{
  "timestep": {
    "fixed_step": "50ms",
    "render_step": "16.666666ms",
    "max_frame": "2s",
    "overrun": "halt",
    "pace": "1ms"
  },
  "server": {
    "addr": ":8080",
    "stream_fixed": false
  },
  "log": {
    "level": "info",
    "format": "text"
  }
}
`
	return os.WriteFile(path, []byte(example), 0o644)
}
