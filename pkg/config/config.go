package config

import internalconfig "github.com/SmitUplenchwar2687/Cadence/internal/config"

// Config is the top-level configuration for a Cadence session.
type Config = internalconfig.Config

// TimestepConfig holds the clock cadences and driver settings.
type TimestepConfig = internalconfig.TimestepConfig

// ServerConfig holds dashboard server settings.
type ServerConfig = internalconfig.ServerConfig

// Default returns a Config with sensible defaults.
func Default() Config {
	return internalconfig.Default()
}

// LoadFile reads a config file and merges it with defaults and environment overrides.
func LoadFile(path string) (Config, error) {
	return internalconfig.LoadFile(path)
}

// LoadEnv returns defaults merged with environment overrides.
func LoadEnv() (Config, error) {
	return internalconfig.LoadEnv()
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	return internalconfig.WriteExample(path)
}
