package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/track"
)

const (
	DefaultMaxSteps        = 1000
	DefaultMaxStepSize     = 1.0 * track.Meter
	DefaultTargetTolerance = 1.0 * track.Micrometer
	DefaultMomentum        = 1.0 * track.GeV
	DefaultWorkers         = 4
)

type Config struct {
	Stepper         string      `yaml:"stepper"`
	Field           FieldConfig `yaml:"field"`
	Direction       string      `yaml:"direction"`
	MaxSteps        uint        `yaml:"max_steps"`
	MaxStepSize     float64     `yaml:"max_step_size"`
	MaxPathLength   float64     `yaml:"max_path_length"`
	TargetTolerance float64     `yaml:"target_tolerance"`
	Start           StartConfig `yaml:"start"`
	Workers         int         `yaml:"workers"`
}

type FieldConfig struct {
	Kind  string  `yaml:"kind"` // zero, constant, gradient
	Bx    float64 `yaml:"bx"`   // tesla
	By    float64 `yaml:"by"`
	Bz    float64 `yaml:"bz"`
	Slope float64 `yaml:"slope"` // gradient only, per mm of z
}

type StartConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	DX       float64 `yaml:"dx"`
	DY       float64 `yaml:"dy"`
	DZ       float64 `yaml:"dz"`
	Momentum float64 `yaml:"momentum"`
	Charge   float64 `yaml:"charge"`
}

func DefaultConfig() *Config {
	return &Config{
		Stepper:         "rk4",
		Field:           FieldConfig{Kind: "constant", Bz: 2.0},
		Direction:       "forward",
		MaxSteps:        DefaultMaxSteps,
		MaxStepSize:     DefaultMaxStepSize,
		MaxPathLength:   1.0 * track.Meter,
		TargetTolerance: DefaultTargetTolerance,
		Start: StartConfig{
			DX:       1,
			Momentum: DefaultMomentum,
			Charge:   -1,
		},
		Workers: DefaultWorkers,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Options maps the configured budgets onto propagation options. Action and
// abort lists stay empty; callers attach their own per call.
func (c *Config) Options() (propagator.Options, error) {
	opts := propagator.DefaultOptions()
	switch c.Direction {
	case "", "forward":
		opts.Direction = propagator.Forward
	case "backward":
		opts.Direction = propagator.Backward
	default:
		return opts, fmt.Errorf("%w: unknown direction %q", track.ErrInvalidOptions, c.Direction)
	}
	opts.MaxSteps = c.MaxSteps
	opts.MaxStepSize = c.MaxStepSize
	opts.MaxPathLength = c.MaxPathLength
	opts.TargetTolerance = c.TargetTolerance
	return opts, nil
}

// StartParameters builds the initial track state.
func (c *Config) StartParameters() track.Parameters {
	return track.Parameters{
		Position:  track.Vector3{X: c.Start.X, Y: c.Start.Y, Z: c.Start.Z},
		Direction: track.Vector3{X: c.Start.DX, Y: c.Start.DY, Z: c.Start.DZ}.Unit(),
		Momentum:  c.Start.Momentum,
		Charge:    c.Start.Charge,
	}
}
