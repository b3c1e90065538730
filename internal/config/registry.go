package config

import (
	"fmt"
	"sort"

	"github.com/dlai211/acts/internal/field"
	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/stepper"
	"github.com/dlai211/acts/internal/track"
)

type Registry struct {
	steppers map[string]func(field.Provider) propagator.Stepper
	fields   map[string]func(FieldConfig) field.Provider
}

func NewRegistry() *Registry {
	r := &Registry{
		steppers: make(map[string]func(field.Provider) propagator.Stepper),
		fields:   make(map[string]func(FieldConfig) field.Provider),
	}

	r.steppers["line"] = func(field.Provider) propagator.Stepper { return stepper.NewLine() }
	r.steppers["euler"] = func(f field.Provider) propagator.Stepper { return stepper.NewEuler(f) }
	r.steppers["rk4"] = func(f field.Provider) propagator.Stepper { return stepper.NewRK4(f) }

	r.fields["zero"] = func(FieldConfig) field.Provider { return field.Zero{} }
	r.fields["constant"] = func(c FieldConfig) field.Provider {
		return field.NewConstant(fieldVector(c))
	}
	r.fields["gradient"] = func(c FieldConfig) field.Provider {
		return field.Gradient{B0: fieldVector(c), Slope: c.Slope}
	}

	return r
}

func fieldVector(c FieldConfig) track.Vector3 {
	return track.Vector3{X: c.Bx, Y: c.By, Z: c.Bz}.Scale(track.Tesla)
}

func (r *Registry) GetField(cfg FieldConfig) (field.Provider, error) {
	kind := cfg.Kind
	if kind == "" {
		kind = "zero"
	}
	fn, ok := r.fields[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", track.ErrUnknownField, kind)
	}
	return fn(cfg), nil
}

func (r *Registry) GetStepper(name string, f field.Provider) (propagator.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", track.ErrUnknownStepper, name)
	}
	return fn(f), nil
}

func (r *Registry) ListSteppers() []string {
	names := make([]string, 0, len(r.steppers))
	for name := range r.steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
