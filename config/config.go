package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds solver and engine parameters.
type Config struct {
	// IrrTolerance is the |NPV| threshold at which Newton-Raphson stops.
	IrrTolerance float64 `toml:"irr_tolerance"`

	// IrrMaxIterations is the hard Newton-Raphson iteration cap.
	// Hitting it is a failure, never a result.
	IrrMaxIterations int `toml:"irr_max_iterations"`

	// IrrMaxRate rejects roots above it as divergence (1.0 == 100%).
	IrrMaxRate float64 `toml:"irr_max_rate"`

	// BisectTolerance is the bracket width used by rootfind.BisectDefault.
	BisectTolerance float64 `toml:"bisect_tolerance"`

	// LatticeStages is the default number of binomial stages.
	LatticeStages int `toml:"lattice_stages"`

	// MonteCarloPaths is the default number of simulated paths.
	MonteCarloPaths int `toml:"monte_carlo_paths"`

	// StrikeTolerance is the absolute tolerance when matching a swaption
	// strike to its swap's fixed rate.
	StrikeTolerance float64 `toml:"strike_tolerance"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	IrrTolerance:     1e-8,
	IrrMaxIterations: 50000,
	IrrMaxRate:       1.0,
	BisectTolerance:  1e-11,
	LatticeStages:    200,
	MonteCarloPaths:  100000,
	StrikeTolerance:  1e-8,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}

// Load reads a TOML file on top of DefaultConfig. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	c := DefaultConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if _, err := toml.Decode(string(raw), &c); err != nil {
		return Config{}, fmt.Errorf("config.Load: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects non-positive tolerances and caps.
func (c Config) Validate() error {
	switch {
	case c.IrrTolerance <= 0:
		return fmt.Errorf("config: irr_tolerance must be positive")
	case c.IrrMaxIterations <= 0:
		return fmt.Errorf("config: irr_max_iterations must be positive")
	case c.IrrMaxRate <= 0:
		return fmt.Errorf("config: irr_max_rate must be positive")
	case c.BisectTolerance <= 0:
		return fmt.Errorf("config: bisect_tolerance must be positive")
	case c.LatticeStages <= 0:
		return fmt.Errorf("config: lattice_stages must be positive")
	case c.MonteCarloPaths <= 0:
		return fmt.Errorf("config: monte_carlo_paths must be positive")
	case c.StrikeTolerance < 0:
		return fmt.Errorf("config: strike_tolerance must not be negative")
	}
	return nil
}
